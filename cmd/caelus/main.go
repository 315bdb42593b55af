// Command caelus loads a class file or markup document, lays it out and
// checks, prints, renders or shows the result.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"caelus/internal/observability"
	"caelus/pkg/uierr"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitDocument = 2
	exitLayout   = 3
)

func main() {
	err := newRootCmd().Execute()
	observability.Sync()
	if err != nil {
		report(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates broken documents from documents that load but
// cannot be laid out.
func exitCode(err error) int {
	var (
		pe  *uierr.ParseError
		dup *uierr.DuplicateNameError
		ite *uierr.InvalidTetherError
		iae *uierr.IncompatibleAxisError
		dpe *uierr.DanglingParentError
		uce *uierr.UnknownClassError
		lce *uierr.LayoutCycleError
		uue *uierr.UnsupportedUnitError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &lce), errors.As(err, &uue):
		return exitLayout
	case errors.As(err, &pe), errors.As(err, &dup), errors.As(err, &ite),
		errors.As(err, &iae), errors.As(err, &dpe), errors.As(err, &uce):
		return exitDocument
	}
	return exitFailure
}

func report(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	var lce *uierr.LayoutCycleError
	if errors.As(err, &lce) {
		for _, q := range lce.Unresolved {
			fmt.Fprintln(w, "  unresolved", q)
		}
	}
}

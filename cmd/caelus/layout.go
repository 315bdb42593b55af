package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"caelus/pkg/element"
)

// placement is one row of the layout report.
type placement struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Left    int    `json:"left"`
	Top     int    `json:"top"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Visible bool   `json:"visible"`
}

func newLayoutCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "layout <document>",
		Short: "Print the resolved geometry of every element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := s.Layout(a.cfg.Window.Width, a.cfg.Window.Height); err != nil {
				return err
			}
			rows := placements(s.Tree())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return writeTable(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func placements(tree *element.Tree) []placement {
	rows := make([]placement, 0, tree.Len())
	for _, el := range tree.Elements() {
		r := el.Current
		rows = append(rows, placement{
			Name:    el.Name,
			Path:    el.Path(),
			Kind:    el.Kind().String(),
			Left:    r.Left,
			Top:     r.Top,
			Width:   r.Width(),
			Height:  r.Height(),
			Visible: el.Visible(),
		})
	}
	return rows
}

func writeJSON(w io.Writer, rows []placement) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeTable(w io.Writer, rows []placement) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tLEFT\tTOP\tWIDTH\tHEIGHT\tVISIBLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%t\n", r.Path, r.Kind, r.Left, r.Top, r.Width, r.Height, r.Visible)
	}
	return tw.Flush()
}

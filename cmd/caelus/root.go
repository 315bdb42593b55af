package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caelus/internal/config"
	"caelus/internal/observability"
	"caelus/pkg/resource"
	"caelus/pkg/text"
	"caelus/pkg/ui"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfgFile      string
	width        int
	height       int
	format       string
	forceResolve bool

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "caelus",
		Short:             "Lay out declarative desktop user interfaces",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./caelus.yaml)")
	pf.IntVarP(&a.width, "width", "W", 0, "client area width in pixels (overrides window.width)")
	pf.IntVarP(&a.height, "height", "H", 0, "client area height in pixels (overrides window.height)")
	pf.StringVarP(&a.format, "format", "f", "auto", "document format: auto, ini or markup")
	pf.BoolVar(&a.forceResolve, "force-resolve", false, "pin unresolvable positions instead of failing")

	root.AddCommand(newCheckCmd(a), newLayoutCmd(a), newRenderCmd(a), newShowCmd(a))
	return root
}

// setup loads the configuration, applies flag overrides and starts the
// logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, v, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Window.Width = a.width
	}
	if flags.Changed("height") {
		cfg.Window.Height = a.height
	}
	if flags.Changed("force-resolve") {
		cfg.Layout.ForceResolve = a.forceResolve
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	a.log = observability.GetLogger()
	a.log.Debug("configuration loaded", zap.String("file", v.ConfigFileUsed()))
	return nil
}

func (a *app) metrics() *text.Metrics {
	return text.NewMetrics(text.LoadFontConfig(a.cfg.Text.FontsDir), a.cfg.Text.DPI, a.log)
}

// open loads the document at uri into a new session.
func (a *app) open(ctx context.Context, uri string) (*ui.Session, *text.Metrics, error) {
	format, err := resource.ParseFormat(a.format)
	if err != nil {
		return nil, nil, err
	}
	m := a.metrics()
	s, err := ui.Open(ctx, resource.NewFetcher(""), uri, format, ui.Options{
		Metrics:       m,
		ForceResolve:  a.cfg.Layout.ForceResolve,
		MaxPasses:     a.cfg.Layout.MaxPasses,
		ScriptTimeout: a.cfg.Script.Timeout,
		FontFace:      a.cfg.Text.FontFace,
		FontSize:      a.cfg.Text.FontSize,
		Logger:        a.log,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, m, nil
}

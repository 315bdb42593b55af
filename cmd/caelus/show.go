package main

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caelus/pkg/desktop"
	"caelus/pkg/script"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document>",
		Short: "Open the document in a desktop window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, m, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fa := fyneapp.NewWithID("dev.caelus")
			host := desktop.New(fa, a.cfg.Window.Title, m, a.log)
			w, h := a.cfg.Window.Width, a.cfg.Window.Height
			host.Window().Resize(fyne.NewSize(float32(w), float32(h)))
			if err := s.Show(host, w, h); err != nil {
				return err
			}

			host.OnEvent(func(ev desktop.Event) {
				err := s.Dispatch(script.Event{Element: ev.Name, Type: ev.Kind.String(), Value: ev.Value})
				if err != nil {
					a.log.Error("event handler failed", zap.String("element", ev.Name), zap.Error(err))
				}
			})
			host.OnResize(func(w, h int) {
				if err := s.Resize(w, h); err != nil {
					a.log.Warn("relayout failed, keeping previous geometry", zap.Int("width", w), zap.Int("height", h), zap.Error(err))
				}
			})
			host.ShowAndRun()
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caelus/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Paint the laid out document to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, m, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			raster := render.NewRaster(m, a.log)
			if err := s.Show(raster, a.cfg.Window.Width, a.cfg.Window.Height); err != nil {
				return err
			}
			if err := raster.SavePNG(output); err != nil {
				return err
			}
			a.log.Info("rendered", zap.String("document", args[0]), zap.String("output", output))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "caelus.png", "output PNG file path")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <document>",
		Short: "Load a document and verify that it lays out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := s.Layout(a.cfg.Window.Width, a.cfg.Window.Height); err != nil {
				return err
			}
			passes, forced := s.Passes()
			note := ""
			if forced {
				note = " (forced)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d elements, %d passes%s\n", args[0], s.Tree().Len(), passes, note)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
)

func newNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Pick the next pair of tracks to compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				pair, err := lib.NextTracks()
				if err != nil {
					return err
				}
				if len(pair) < 2 {
					fmt.Fprintln(cmd.OutOrStdout(), "Not enough tracks to compare; scan a directory first")
					return nil
				}

				for _, t := range pair {
					fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s\n", t.ID, t.Description())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nRecord the outcome with: faceoff pick <winner-id> <loser-id>\n")
				return nil
			})
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
)

func newRangeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "range",
		Short: "Show the current rating spread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				minRating, maxRating, err := lib.RatingRange()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ratings span %.3f to %.3f (spread %.3f)\n",
					minRating, maxRating, maxRating-minRating)
				return nil
			})
		},
	}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded comparisons in play order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				log, err := lib.ComparisonLog()
				if err != nil {
					return err
				}
				if len(log) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No comparisons recorded")
					return nil
				}

				rows := make([][]string, 0, len(log))
				for _, c := range log {
					winner, loser := c.FirstTrackID, c.SecondTrackID
					if c.Score == 0 {
						winner, loser = loser, winner
					}
					rows = append(rows, []string{
						c.Timestamp.Format("2006-01-02 15:04:05"),
						strconv.FormatInt(winner, 10),
						strconv.FormatInt(loser, 10),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"When", "Winner", "Loser"}, rows, 2, 3))
				return nil
			})
		},
	}
}

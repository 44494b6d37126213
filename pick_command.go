package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
)

func newPickCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pick <winner-id> <loser-id>...",
		Short: "Record a comparison outcome and update ratings",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, len(args))
			for i, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid track id %q", arg)
				}
				ids[i] = id
			}

			winnerID, loserIDs := ids[0], ids[1:]

			return ctx.withLockedLibrary(func(lib *library.Library) error {
				if err := lib.UpdatePlaying(winnerID, loserIDs); err != nil {
					return err
				}

				winner, err := lib.TrackByID(winnerID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s\n", winner.ID, winner.Description())
				for _, loserID := range loserIDs {
					loser, err := lib.TrackByID(loserID)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s\n", loser.ID, loser.Description())
				}
				return nil
			})
		},
	}
}

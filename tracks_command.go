package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List tracks ordered by rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				tracks, err := lib.Tracks()
				if err != nil {
					return err
				}
				if len(tracks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Library is empty")
					return nil
				}
				if limit > 0 && len(tracks) > limit {
					tracks = tracks[:limit]
				}

				rows := make([][]string, 0, len(tracks))
				for _, t := range tracks {
					rows = append(rows, trackRow(&t))
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Rating", "Dev", "Comparisons", "Track"}, rows, 1, 2, 3, 4))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the top N tracks")

	return cmd
}

func trackRow(t *library.Track) []string {
	name := t.Title
	if t.Artist != "" {
		name = t.Artist + " - " + t.Title
	}
	if name == "" || t.Title == "" {
		name = t.Path
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		fmt.Sprintf("%.1f", t.Rating),
		fmt.Sprintf("%.1f", t.Deviation),
		strconv.Itoa(t.Comparisons),
		name,
	}
}

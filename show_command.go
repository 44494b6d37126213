package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|path>",
		Short: "Show one track by id or file path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				track, err := lookupTrack(lib, args[0])
				if errors.Is(err, library.ErrNotFound) {
					return fmt.Errorf("no track matches %q", args[0])
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n\n", track.Description())
				fmt.Fprintf(out, "ID:           %d\n", track.ID)
				if track.RecordingID != "" {
					fmt.Fprintf(out, "Recording ID: %s\n", track.RecordingID)
				}
				if track.Path != "" {
					fmt.Fprintf(out, "File:         %s\n", track.Path)
				}
				fmt.Fprintf(out, "Rating:       %.3f\n", track.Rating)
				fmt.Fprintf(out, "Deviation:    %.3f\n", track.Deviation)
				fmt.Fprintf(out, "Comparisons:  %d\n", track.Comparisons)
				if track.LastUpdate != nil {
					fmt.Fprintf(out, "Last update:  %s\n", track.LastUpdate.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

func lookupTrack(lib *library.Library, arg string) (*library.Track, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return lib.TrackByID(id)
	}
	return lib.TrackByPath(arg)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
	"github.com/jcheval/faceoff/internal/tags"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan registered directories and reconcile the library",
		Long: fmt.Sprintf(`Scan registered directories and reconcile the library.

New audio files are added, re-tagged files have their track identity
reconciled, and files missing from disk are pruned.

Recognized extensions: %s`, strings.Join(tags.Extensions(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedLibrary(func(lib *library.Library) error {
				stats, err := lib.ScanDirectories()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scan complete: %d added, %d updated, %d removed\n",
					stats.Added, stats.Updated, stats.Removed)
				return nil
			})
		},
	}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
)

func newDirCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Manage scanned library directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDirAddCommand(ctx))
	cmd.AddCommand(newDirRemoveCommand(ctx))
	cmd.AddCommand(newDirListCommand(ctx))

	return cmd
}

func newDirAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Register a directory for scanning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedLibrary(func(lib *library.Library) error {
				if err := lib.AddDirectory(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", args[0])
				return nil
			})
		},
	}
}

func newDirRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Unregister a directory and forget its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedLibrary(func(lib *library.Library) error {
				if err := lib.RemoveDirectory(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newDirListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				dirs, err := lib.Directories()
				if err != nil {
					return err
				}
				if len(dirs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No directories registered")
					return nil
				}

				rows := make([][]string, 0, len(dirs))
				for _, d := range dirs {
					rows = append(rows, []string{strconv.FormatInt(d.ID, 10), d.Path})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Path"}, rows, 1))
				return nil
			})
		},
	}
}

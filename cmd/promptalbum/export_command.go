package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"promptalbum/internal/config"
	"promptalbum/internal/journal"
	"promptalbum/internal/report"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a journaled run to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				target := strings.TrimSpace(outPath)
				if target == "" {
					target = fmt.Sprintf("promptalbum-%s.xlsx", shortID(run.ID))
				}
				target, err = config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := report.ExportRun(run, target); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported run %s to %s\n", shortID(run.ID), target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Workbook path (default promptalbum-<id>.xlsx)")
	return cmd
}

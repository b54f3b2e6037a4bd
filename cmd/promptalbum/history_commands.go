package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"promptalbum/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect journaled runs",
	}
	list := newHistoryListCommand(ctx)
	historyCmd.RunE = list.RunE
	historyCmd.Flags().AddFlagSet(list.Flags())

	historyCmd.AddCommand(list)
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					if runs == nil {
						runs = []journal.Run{}
					}
					return writeJSON(cmd, runs)
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						string(run.Status),
						strconv.Itoa(run.Scanned),
						strconv.Itoa(run.Matched),
						strconv.Itoa(run.Unmatched),
						truncate(run.Prompt, 48),
					})
				}
				newPrinter(cmd.OutOrStdout()).table(tableSpec{
					headers: []string{"ID", "Started", "Status", "Scanned", "Matched", "Unmatched", "Prompt"},
					rows:    rows,
					right:   []int{3, 4, 5},
					empty:   "No runs recorded",
				})
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its albums; a unique id prefix is enough",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, run)
				}
				renderRun(newPrinter(cmd.OutOrStdout()), run)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func renderRun(p *printer, run *journal.Run) {
	p.section("Run " + run.ID)
	kind := statusOK
	switch run.Status {
	case journal.StatusPartial:
		kind = statusWarn
	case journal.StatusDryRun:
		kind = statusInfo
	}
	p.status("Status", kind, "%s", run.Status)
	p.status("Prompt", statusInfo, "%s", run.Prompt)
	p.status("Started", statusInfo, "%s", run.StartedAt.Local().Format(time.DateTime))
	p.status("Duration", statusInfo, "%s", run.Duration().Round(time.Millisecond))
	p.status("Mode", statusInfo, "%s", run.Mode)
	p.status("Dry run", statusInfo, "%s", yesNo(run.DryRun))
	p.status("Source", statusInfo, "%s", run.SourceDir)
	p.status("Target", statusInfo, "%s", run.TargetDir)
	p.status("Photos", statusInfo, "%d scanned, %d matched, %d unmatched", run.Scanned, run.Matched, run.Unmatched)
	if run.LogPath != "" {
		p.status("Log", statusInfo, "%s", run.LogPath)
	}
	if len(run.Albums) == 0 {
		return
	}
	rows := make([][]string, 0, len(run.Albums))
	for _, a := range run.Albums {
		failed := 0
		for _, pl := range a.Placements {
			if pl.Error != "" {
				failed++
			}
		}
		filter := a.DateFilter
		if filter == "" {
			filter = "-"
		}
		rows = append(rows, []string{
			a.FolderLabel,
			strconv.Itoa(a.PhotoCount),
			humanize.Bytes(uint64(a.TotalBytes)),
			filter,
			strconv.Itoa(failed),
		})
	}
	p.table(tableSpec{
		headers: []string{"Album", "Photos", "Size", "Date filter", "Failed"},
		rows:    rows,
		right:   []int{1, 2, 4},
	})
}

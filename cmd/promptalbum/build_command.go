package main

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"promptalbum/internal/config"
	"promptalbum/internal/journal"
	"promptalbum/internal/placement"
	"promptalbum/internal/services"
	"promptalbum/internal/workflow"
)

type buildFlags struct {
	prompt string
	dryRun bool
	backup bool
	move   bool
	year   int
	month  int
	json   bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan the source folder and build the albums described by a prompt",
		Example: `  promptalbum build --prompt "Create albums for NCC events, college fests in March 2024"
  promptalbum build --prompt "Goa trip" --year 2023 --month 6 --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, ctx, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.prompt, "prompt", "p", "", "Album description, e.g. \"NCC events, college fests in March 2024\"")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would happen without touching any file")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "Copy photos and keep the originals (default mode)")
	cmd.Flags().BoolVar(&flags.move, "move", false, "Move photos instead of copying them")
	cmd.Flags().IntVar(&flags.year, "year", 0, "Replace every album's date filter with this year")
	cmd.Flags().IntVar(&flags.month, "month", 0, "Narrow --year to one month (1-12)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the run outcome as JSON")
	cmd.MarkFlagsMutuallyExclusive("backup", "move")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func runBuild(cmd *cobra.Command, ctx *commandContext, flags buildFlags) error {
	if strings.TrimSpace(flags.prompt) == "" {
		return services.Wrap(services.ErrValidation, "cli", "build", "--prompt must not be empty", nil)
	}
	override, err := dateOverride(flags.year, flags.month)
	if err != nil {
		return err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	started := time.Now()
	session, err := ctx.runSession(cmd, started)
	if err != nil {
		return err
	}
	defer session.Close()

	mode := ""
	switch {
	case flags.move:
		mode = config.ModeMove
	case flags.backup:
		mode = config.ModeCopy
	}

	var outcome *workflow.Outcome
	err = ctx.withJournal(func(store *journal.Store) error {
		runner := workflow.NewRunner(cfg, session.Logger,
			workflow.WithRecorder(store),
			workflow.WithLogPath(session.Path),
		)
		var runErr error
		outcome, runErr = runner.Run(cmd.Context(), workflow.Options{
			Prompt:       flags.prompt,
			DryRun:       flags.dryRun,
			Mode:         mode,
			DateOverride: override,
		})
		return runErr
	})
	if err != nil {
		return err
	}

	if flags.json {
		return writeJSON(cmd, newBuildReport(outcome))
	}
	renderOutcome(newPrinter(cmd.OutOrStdout()), outcome)
	return nil
}

type albumReport struct {
	Name       string              `json:"name"`
	Folder     string              `json:"folder"`
	Dir        string              `json:"dir"`
	DateFilter string              `json:"date_filter,omitempty"`
	Photos     int                 `json:"photos"`
	Bytes      int64               `json:"bytes"`
	Failed     []placement.Failure `json:"failed,omitempty"`
}

type buildReport struct {
	RunID        string        `json:"run_id"`
	Status       string        `json:"status"`
	DryRun       bool          `json:"dry_run"`
	Mode         string        `json:"mode"`
	Scanned      int           `json:"scanned"`
	Matched      int           `json:"matched"`
	Unmatched    int           `json:"unmatched"`
	Albums       []albumReport `json:"albums"`
	EmptyAlbums  []string      `json:"empty_albums,omitempty"`
	Unresolved   []string      `json:"unresolved_dates,omitempty"`
	UnmatchedLog string        `json:"unmatched_log,omitempty"`
	Gallery      string        `json:"gallery,omitempty"`
	LogPath      string        `json:"log_path,omitempty"`
	DurationMS   int64         `json:"duration_ms"`
}

func newBuildReport(o *workflow.Outcome) buildReport {
	report := buildReport{
		RunID:        o.RunID,
		Status:       string(o.Status),
		DryRun:       o.DryRun,
		Mode:         o.Mode,
		Scanned:      o.Scanned,
		Matched:      o.Matched(),
		Unmatched:    len(o.Unmatched),
		Albums:       make([]albumReport, 0, len(o.Albums)),
		UnmatchedLog: o.UnmatchedLog,
		Gallery:      o.GalleryPath,
		LogPath:      o.LogPath,
		DurationMS:   o.FinishedAt.Sub(o.StartedAt).Milliseconds(),
	}
	for _, a := range o.Albums {
		entry := albumReport{
			Name:   a.Album.SpecName,
			Folder: filepath.Base(a.Dir),
			Dir:    a.Dir,
			Photos: len(a.Placed),
			Bytes:  a.Album.TotalBytes(),
			Failed: a.Failed,
		}
		if a.Spec.DateFilter != nil {
			entry.DateFilter = a.Spec.DateFilter.String()
		}
		report.Albums = append(report.Albums, entry)
	}
	for _, spec := range o.Empty {
		report.EmptyAlbums = append(report.EmptyAlbums, spec.Name)
	}
	for _, u := range o.Unresolved {
		report.Unresolved = append(report.Unresolved, u.Fragment)
	}
	return report
}

func renderOutcome(p *printer, o *workflow.Outcome) {
	title := "Run " + shortID(o.RunID)
	if o.DryRun {
		title += " (dry run)"
	}
	p.section(title)

	rows := make([][]string, 0, len(o.Albums))
	for _, a := range o.Albums {
		earliest, latest := a.Album.DateSpan()
		rows = append(rows, []string{
			filepath.Base(a.Dir),
			strconv.Itoa(len(a.Placed)),
			humanize.Bytes(uint64(a.Album.TotalBytes())),
			formatDay(earliest) + " .. " + formatDay(latest),
			strconv.Itoa(len(a.Failed)),
		})
	}
	p.table(tableSpec{
		headers: []string{"Album", "Photos", "Size", "Dates", "Failed"},
		rows:    rows,
		right:   []int{1, 2, 4},
		empty:   "No album received any photo",
	})

	verb := "copied"
	switch {
	case o.DryRun:
		verb = "planned"
	case o.Mode == config.ModeMove:
		verb = "moved"
	}
	p.status("Scanned", statusInfo, "%d photos", o.Scanned)
	p.status("Albums", statusOK, "%d created, %d photos %s (%s)",
		len(o.Albums), o.Matched(), verb, humanize.Bytes(uint64(o.TotalBytes())))
	if n := o.FailedCount(); n > 0 {
		p.status("Failed", statusError, "%d photos could not be placed", n)
	}
	for _, spec := range o.Empty {
		p.status("Empty", statusWarn, "%q matched no photos", spec.Name)
	}
	for _, u := range o.Unresolved {
		p.status("Date", statusWarn, "could not understand %q", u.Fragment)
	}
	kind := statusInfo
	if len(o.Unmatched) > 0 {
		kind = statusWarn
	}
	if o.UnmatchedLog != "" {
		p.status("Unmatched", kind, "%d photos (see %s)", len(o.Unmatched), o.UnmatchedLog)
	} else {
		p.status("Unmatched", kind, "%d photos", len(o.Unmatched))
	}
	if o.GalleryPath != "" {
		p.status("Gallery", statusInfo, "%s", o.GalleryPath)
	}
	if o.LogPath != "" {
		p.status("Log", statusInfo, "%s", o.LogPath)
	}
}

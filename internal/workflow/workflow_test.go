package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"promptalbum/internal/album"
	"promptalbum/internal/config"
	"promptalbum/internal/docs"
	"promptalbum/internal/journal"
	"promptalbum/internal/logging"
	"promptalbum/internal/report"
	"promptalbum/internal/services"
	"promptalbum/internal/testsupport"
	"promptalbum/internal/workflow"
)

const nccPrompt = "Create albums for NCC events, college fests in March 2024"

type fixture struct {
	cfg    *config.Config
	parade string
	fest   string
	camp   string
	random string
}

// seedSource lays out a small photo tree:
//
//	ncc/parade.jpg      modified 2023-11-05
//	fest/IMG_0001.jpg   EXIF 2024-03-09
//	camp/ncc_day.jpg    modified 2024-03-12 (matches both albums)
//	misc/random.png     modified 2020-01-01
func seedSource(t *testing.T, opts ...testsupport.ConfigOption) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	src := cfg.Paths.SourceDir
	f := fixture{
		cfg:    cfg,
		parade: filepath.Join(src, "ncc", "parade.jpg"),
		fest:   filepath.Join(src, "fest", "IMG_0001.jpg"),
		camp:   filepath.Join(src, "camp", "ncc_day.jpg"),
		random: filepath.Join(src, "misc", "random.png"),
	}
	testsupport.WriteFile(t, f.parade, 10)
	testsupport.Touch(t, f.parade, time.Date(2023, 11, 5, 9, 0, 0, 0, time.Local))
	testsupport.WriteJPEG(t, f.fest, time.Date(2024, 3, 9, 18, 30, 0, 0, time.Local), "Pixel 7")
	testsupport.Touch(t, f.fest, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local))
	testsupport.WriteFile(t, f.camp, 20)
	testsupport.Touch(t, f.camp, time.Date(2024, 3, 12, 7, 0, 0, 0, time.Local))
	testsupport.WriteFile(t, f.random, 5)
	testsupport.Touch(t, f.random, time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local))
	return f
}

func fixedRunner(cfg *config.Config, opts ...workflow.Option) *workflow.Runner {
	clock := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]workflow.Option{
		workflow.WithClock(func() time.Time { return clock }),
		workflow.WithIDGenerator(func() string { return "run-0001" }),
	}, opts...)
	return workflow.NewRunner(cfg, logging.NewNop(), opts...)
}

func albumDirs(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read %s: %v", root, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs
}

func TestPlanAssignsWithFirstMatchPrecedence(t *testing.T) {
	f := seedSource(t)
	plan, err := fixedRunner(f.cfg).Plan(context.Background(), workflow.Options{Prompt: nccPrompt})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Result.Total() != 4 || len(plan.Photos) != 4 {
		t.Fatalf("expected 4 photos accounted for, got %d of %d", plan.Result.Total(), len(plan.Photos))
	}
	if len(plan.Albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(plan.Albums))
	}

	ncc := plan.Albums[0].Album
	if ncc.FolderLabel != "2023-11-NCC-events" {
		t.Fatalf("unexpected ncc label %q", ncc.FolderLabel)
	}
	if len(ncc.Photos) != 2 || ncc.Photos[0].Path != f.camp || ncc.Photos[1].Path != f.parade {
		t.Fatalf("unexpected ncc photos %+v", ncc.Photos)
	}

	fests := plan.Albums[1].Album
	if fests.FolderLabel != "2024-03-college-fests" {
		t.Fatalf("unexpected fests label %q", fests.FolderLabel)
	}
	if len(fests.Photos) != 1 || fests.Photos[0].Path != f.fest {
		t.Fatalf("unexpected fest photos %+v", fests.Photos)
	}

	if len(plan.Unmatched) != 1 || plan.Unmatched[0].Path != f.random {
		t.Fatalf("unexpected unmatched %+v", plan.Unmatched)
	}
	if _, err := os.Stat(f.cfg.Paths.TargetDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("plan must not create the target folder, stat err=%v", err)
	}
}

func TestRunCopiesDocumentsAndJournals(t *testing.T) {
	f := seedSource(t)
	store := testsupport.MustOpenJournal(t, f.cfg)
	runner := fixedRunner(f.cfg, workflow.WithRecorder(store), workflow.WithLogPath("/tmp/run.log"))

	outcome, err := runner.Run(context.Background(), workflow.Options{Prompt: nccPrompt})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Status != journal.StatusCompleted {
		t.Fatalf("unexpected status %s", outcome.Status)
	}
	if outcome.Matched() != 3 || outcome.FailedCount() != 0 || len(outcome.Unmatched) != 1 {
		t.Fatalf("unexpected counts matched=%d failed=%d unmatched=%d",
			outcome.Matched(), outcome.FailedCount(), len(outcome.Unmatched))
	}

	target := f.cfg.Paths.TargetDir
	dirs := albumDirs(t, target)
	if len(dirs) != 2 || dirs[0] != "2023-11-NCC-events" || dirs[1] != "2024-03-college-fests" {
		t.Fatalf("unexpected album folders %v", dirs)
	}
	for _, path := range []string{
		filepath.Join(target, "2023-11-NCC-events", "parade.jpg"),
		filepath.Join(target, "2023-11-NCC-events", "ncc_day.jpg"),
		filepath.Join(target, "2024-03-college-fests", "IMG_0001.jpg"),
		filepath.Join(target, "2024-03-college-fests", docs.ReadmeName),
		filepath.Join(target, "2024-03-college-fests", docs.SummaryName),
		filepath.Join(target, docs.IndexName),
		f.parade,
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(target, "2024-03-college-fests", docs.SummaryName))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summary docs.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.AlbumName != "college fests" || summary.TotalPhotos != 1 || summary.OriginalPrompt != nccPrompt {
		t.Fatalf("unexpected summary %+v", summary)
	}

	logData, err := os.ReadFile(filepath.Join(f.cfg.Paths.LogDir, report.UnmatchedLogName))
	if err != nil {
		t.Fatalf("read unmatched log: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(string(logData)), f.random) {
		t.Fatalf("unmatched log missing %s:\n%s", f.random, logData)
	}

	run, err := store.GetRun(context.Background(), "run-0001")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Scanned != 4 || run.Matched != 3 || run.Unmatched != 1 || len(run.Albums) != 2 {
		t.Fatalf("unexpected journaled run %+v", run)
	}
	if run.Albums[1].DateFilter == "" {
		t.Fatalf("expected date filter recorded for fests album")
	}
	if run.LogPath != "/tmp/run.log" || run.Mode != config.ModeCopy {
		t.Fatalf("unexpected run metadata %+v", run)
	}
}

func TestRunMoveModeRemovesSources(t *testing.T) {
	f := seedSource(t, testsupport.WithoutDocs())
	outcome, err := fixedRunner(f.cfg).Run(context.Background(), workflow.Options{Prompt: nccPrompt, Mode: "move"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Mode != config.ModeMove {
		t.Fatalf("expected move mode, got %s", outcome.Mode)
	}
	for _, src := range []string{f.parade, f.fest, f.camp} {
		if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected %s moved, stat err=%v", src, err)
		}
	}
	if _, err := os.Stat(f.random); err != nil {
		t.Fatalf("unmatched photo must stay in place: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.TargetDir, docs.IndexName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("gallery disabled but index written, stat err=%v", err)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	f := seedSource(t)
	store := testsupport.MustOpenJournal(t, f.cfg)
	outcome, err := fixedRunner(f.cfg, workflow.WithRecorder(store)).
		Run(context.Background(), workflow.Options{Prompt: nccPrompt, DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Status != journal.StatusDryRun || outcome.Matched() != 3 {
		t.Fatalf("unexpected dry run outcome status=%s matched=%d", outcome.Status, outcome.Matched())
	}
	if _, err := os.Stat(f.cfg.Paths.TargetDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run created target folder, stat err=%v", err)
	}
	if outcome.UnmatchedLog != "" || outcome.GalleryPath != "" {
		t.Fatalf("dry run wrote outputs: %+v", outcome)
	}
	runs, err := store.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || !runs[0].DryRun {
		t.Fatalf("expected one dry run journaled, got %+v", runs)
	}
}

func TestRunDateOverride(t *testing.T) {
	f := seedSource(t, testsupport.WithoutDocs())
	override, err := album.MonthFilter(2020, time.January)
	if err != nil {
		t.Fatalf("MonthFilter: %v", err)
	}
	plan, err := fixedRunner(f.cfg).Plan(context.Background(), workflow.Options{
		Prompt:       "holidays",
		DateOverride: &override,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Albums) != 1 || plan.Albums[0].Album.FolderLabel != "2020-01-holidays" {
		t.Fatalf("unexpected albums %+v", plan.Albums)
	}
	if got := plan.Albums[0].Album.Photos; len(got) != 1 || got[0].Path != f.random {
		t.Fatalf("unexpected override matches %+v", got)
	}
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) RecordRun(context.Context, *journal.Run) error {
	r.calls++
	return errors.New("disk full")
}

func TestRunJournalFailureIsNotFatal(t *testing.T) {
	f := seedSource(t, testsupport.WithoutDocs())
	rec := &failingRecorder{}
	if _, err := fixedRunner(f.cfg, workflow.WithRecorder(rec)).
		Run(context.Background(), workflow.Options{Prompt: nccPrompt}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("expected one record attempt, got %d", rec.calls)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		mode   string
		setup  func(t *testing.T, cfg *config.Config)
		marker error
	}{
		{name: "empty prompt", prompt: "create albums for", marker: services.ErrValidation},
		{name: "bad mode", prompt: nccPrompt, mode: "link", marker: services.ErrValidation},
		{
			name:   "missing source",
			prompt: nccPrompt,
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Paths.SourceDir = filepath.Join(testsupport.BaseDir(cfg), "gone")
			},
			marker: services.ErrNotFound,
		},
		{
			name:   "target is a file",
			prompt: "trips",
			setup: func(t *testing.T, cfg *config.Config) {
				testsupport.WriteFile(t, cfg.Paths.TargetDir, 1)
			},
			marker: services.ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			if tt.setup != nil {
				tt.setup(t, cfg)
			}
			_, err := fixedRunner(cfg).Run(context.Background(), workflow.Options{Prompt: tt.prompt, Mode: tt.mode})
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestRunEmptyGroupsReported(t *testing.T) {
	f := seedSource(t, testsupport.WithoutDocs())
	outcome, err := fixedRunner(f.cfg).Run(context.Background(), workflow.Options{Prompt: "NCC events, weddings"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.Empty) != 1 || outcome.Empty[0].Name != "weddings" {
		t.Fatalf("expected weddings reported empty, got %+v", outcome.Empty)
	}
	if len(outcome.Albums) != 1 {
		t.Fatalf("expected one placed album, got %d", len(outcome.Albums))
	}
}

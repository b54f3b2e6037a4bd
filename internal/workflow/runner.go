package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"promptalbum/internal/album"
	"promptalbum/internal/config"
	"promptalbum/internal/docs"
	"promptalbum/internal/journal"
	"promptalbum/internal/logging"
	"promptalbum/internal/matcher"
	"promptalbum/internal/placement"
	"promptalbum/internal/preflight"
	"promptalbum/internal/prompt"
	"promptalbum/internal/report"
	"promptalbum/internal/scanner"
	"promptalbum/internal/services"
)

// Recorder persists finished runs. *journal.Store satisfies it.
type Recorder interface {
	RecordRun(ctx context.Context, run *journal.Run) error
}

// Runner executes organize runs against one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
	newID    func() string
	logPath  string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRecorder journals every run through r.
func WithRecorder(r Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(rn *Runner) {
		if now != nil {
			rn.now = now
		}
	}
}

// WithIDGenerator overrides run id generation.
func WithIDGenerator(gen func() string) Option {
	return func(rn *Runner) {
		if gen != nil {
			rn.newID = gen
		}
	}
}

// WithLogPath records the run log file in the outcome and journal.
func WithLogPath(path string) Option {
	return func(rn *Runner) { rn.logPath = path }
}

// NewRunner constructs a Runner.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	rn := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "workflow"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(rn)
	}
	return rn
}

// Plan parses the prompt, scans the source folder, assigns photos, and
// labels the non-empty groups. Nothing is written.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Plan, error) {
	if r.cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "plan", "configuration unavailable", nil)
	}
	logger := logging.WithContext(ctx, r.logger)

	parsed, err := prompt.NewParser(r.cfg.Vocabulary()).Parse(opts.Prompt)
	if err != nil {
		if errors.Is(err, album.ErrEmptyAlbumSet) {
			return nil, services.Wrap(services.ErrValidation, "parse", "prompt",
				"no albums could be extracted from the prompt", err)
		}
		return nil, services.Wrap(services.ErrValidation, "parse", "prompt", "prompt rejected", err)
	}
	for _, u := range parsed.Unresolved {
		logging.WarnWithContext(logger, "date fragment not understood", "date_unresolved",
			logging.String("clause", u.Clause),
			logging.String("fragment", u.Fragment),
			logging.Int("sequence_index", u.SequenceIndex),
			logging.String(logging.FieldImpact, "album matches by keywords only"),
			logging.String(logging.FieldErrorHint, "use a month name with a year, e.g. \"June 2023\""),
		)
	}
	specs := parsed.Specs
	if opts.DateOverride != nil {
		specs = prompt.OverrideDates(specs, opts.DateOverride)
		logger.Info("date filter overridden", logging.String("filter", opts.DateOverride.String()))
	}
	for _, spec := range specs {
		logger.Debug("album requested",
			logging.String("name", spec.Name),
			logging.String("keywords", strings.Join(spec.Keywords, ",")),
			logging.Int("sequence_index", spec.SequenceIndex),
		)
	}

	if err := r.cfg.CheckSource(); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "scan", "source", "source folder unavailable", err)
	}
	sc := scanner.New(scanner.Options{
		Extensions: r.cfg.Scan.Extensions,
		Workers:    r.cfg.Scan.Workers,
		ReadEXIF:   r.cfg.Scan.ReadEXIF,
		Exclude:    []string{r.cfg.Paths.TargetDir},
	}, r.logger)
	photos, err := sc.Scan(ctx, r.cfg.Paths.SourceDir)
	if err != nil {
		return nil, err
	}

	result := matcher.Assign(specs, photos)
	plan := &Plan{
		Specs:      specs,
		Unresolved: parsed.Unresolved,
		Photos:     photos,
		Result:     result,
		Unmatched:  append([]album.PhotoRecord(nil), result.Unmatched...),
	}
	for _, spec := range result.EmptyGroups() {
		logging.WarnWithContext(logger, "album matched no photos", "album_empty",
			logging.String("name", spec.Name),
			logging.Int("sequence_index", spec.SequenceIndex),
			logging.String(logging.FieldImpact, "no folder created for this album"),
		)
	}
	for _, group := range result.NonEmpty() {
		resolved, err := album.Label(group.Spec, group.Photos)
		if err != nil {
			logging.WarnWithContext(logger, "album could not be labelled", "album_label_failed",
				logging.String("name", group.Spec.Name),
				logging.Error(err),
				logging.String(logging.FieldImpact, "photos reported as unmatched"),
			)
			plan.Unmatched = append(plan.Unmatched, group.Photos...)
			continue
		}
		plan.Albums = append(plan.Albums, PlannedAlbum{Spec: group.Spec, Album: resolved})
	}

	logger.Info("assignment complete",
		logging.Int("scanned", len(photos)),
		logging.Int("albums", len(plan.Albums)),
		logging.Int("matched", result.MatchedCount()),
		logging.Int("unmatched", len(plan.Unmatched)),
	)
	return plan, nil
}

// Run plans and then places every album, writes documentation, the gallery,
// and the unmatched log, and journals the run. Per-photo placement failures
// mark the run partial without returning an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "run", "configuration unavailable", nil)
	}
	started := r.now()
	runID := r.newID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	mode, err := r.mode(opts.Mode)
	if err != nil {
		return nil, err
	}
	logger.Info("run started",
		logging.String("prompt", opts.Prompt),
		logging.String("mode", mode),
		logging.Bool("dry_run", opts.DryRun),
		logging.String("source", r.cfg.Paths.SourceDir),
		logging.String("target", r.cfg.Paths.TargetDir),
	)

	plan, err := r.Plan(services.WithStage(ctx, "plan"), opts)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		RunID:      runID,
		Prompt:     opts.Prompt,
		DryRun:     opts.DryRun,
		Mode:       mode,
		StartedAt:  started,
		Specs:      plan.Specs,
		Unresolved: plan.Unresolved,
		Empty:      plan.Result.EmptyGroups(),
		Scanned:    len(plan.Photos),
		Unmatched:  plan.Unmatched,
		LogPath:    r.logPath,
	}

	if !opts.DryRun {
		if failed := preflight.Failed(preflight.RunAll(r.cfg)); len(failed) > 0 {
			for _, f := range failed {
				logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
					logging.String("check", f.Name),
					logging.String("detail", f.Detail),
				)
			}
			return nil, services.Wrap(services.ErrConfiguration, "preflight", "check",
				fmt.Sprintf("%s: %s", failed[0].Name, failed[0].Detail), nil)
		}
	}

	placer := placement.New(placement.Options{
		Target:             r.cfg.Paths.TargetDir,
		Move:               mode == config.ModeMove,
		DryRun:             opts.DryRun,
		PreserveTimestamps: r.cfg.Organize.PreserveTimestamps,
	}, r.logger)
	unlock, err := placer.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	placeCtx := services.WithStage(ctx, "place")
	for _, planned := range plan.Albums {
		res, err := placer.Place(placeCtx, planned.Album)
		if err != nil {
			return nil, err
		}
		outcome.Albums = append(outcome.Albums, AlbumOutcome{
			Spec:   planned.Spec,
			Album:  planned.Album,
			Dir:    res.Dir,
			Placed: res.Files,
			Failed: res.Failed,
		})
	}

	if !opts.DryRun {
		r.writeOutputs(services.WithStage(ctx, "docs"), outcome)
	}

	outcome.FinishedAt = r.now()
	outcome.Status = journal.StatusCompleted
	switch {
	case opts.DryRun:
		outcome.Status = journal.StatusDryRun
	case outcome.FailedCount() > 0:
		outcome.Status = journal.StatusPartial
	}

	if r.recorder != nil {
		if err := r.recorder.RecordRun(ctx, r.journalRun(outcome)); err != nil {
			logging.WarnWithContext(logger, "run not journaled", "journal_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run missing from history"),
			)
		}
	}

	logger.Info("run finished",
		logging.String("status", string(outcome.Status)),
		logging.Int("albums", len(outcome.Albums)),
		logging.Int("matched", outcome.Matched()),
		logging.Int("failed", outcome.FailedCount()),
		logging.Int("unmatched", len(outcome.Unmatched)),
		logging.Duration("elapsed", outcome.FinishedAt.Sub(started)),
	)
	return outcome, nil
}

func (r *Runner) mode(override string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(override))
	if mode == "" {
		mode = r.cfg.Organize.Mode
	}
	switch mode {
	case "", config.ModeCopy:
		return config.ModeCopy, nil
	case config.ModeMove:
		return config.ModeMove, nil
	default:
		return "", services.Wrap(services.ErrValidation, "workflow", "mode",
			fmt.Sprintf("unknown mode %q (want copy or move)", override), nil)
	}
}

// writeOutputs writes album docs, the gallery, and the unmatched log. Each
// failure is logged and leaves the placed photos untouched.
func (r *Runner) writeOutputs(ctx context.Context, outcome *Outcome) {
	logger := logging.WithContext(ctx, r.logger)
	created := r.now()

	var entries []docs.GalleryEntry
	for _, a := range outcome.Albums {
		if len(a.Placed) == 0 {
			continue
		}
		placed := placedAlbum(a)
		if r.cfg.Organize.WriteDocs {
			if err := docs.WriteAlbum(a.Dir, placed, filterString(a.Spec), outcome.Prompt, created); err != nil {
				logging.WarnWithContext(logger, "album documentation not written", "docs_failed",
					logging.String(logging.FieldAlbum, filepath.Base(a.Dir)),
					logging.Error(err),
				)
			}
		}
		entries = append(entries, docs.GalleryEntry{Album: placed, Dir: a.Dir, Cover: a.Placed[0].Destination})
	}

	if r.cfg.Organize.Gallery && len(entries) > 0 {
		gallery := docs.NewGallery(r.cfg.Paths.TargetDir, r.cfg.Organize.ThumbnailSize, r.logger)
		path, err := gallery.Write(entries, created)
		if err != nil {
			logging.WarnWithContext(logger, "gallery not written", "gallery_failed", logging.Error(err))
		} else {
			outcome.GalleryPath = path
		}
	}

	if dir := strings.TrimSpace(r.cfg.Paths.LogDir); dir != "" {
		path, err := report.WriteUnmatched(dir, outcome.Unmatched, created)
		if err != nil {
			logging.WarnWithContext(logger, "unmatched log not written", "unmatched_log_failed", logging.Error(err))
		} else {
			outcome.UnmatchedLog = path
		}
	}
}

// placedAlbum narrows the album to the photos that were placed, under the
// names they were placed with.
func placedAlbum(a AlbumOutcome) album.ResolvedAlbum {
	bySource := make(map[string]string, len(a.Placed))
	for _, p := range a.Placed {
		bySource[p.Source] = filepath.Base(p.Destination)
	}
	out := a.Album
	out.Photos = make([]album.PhotoRecord, 0, len(a.Placed))
	for _, photo := range a.Album.Photos {
		name, ok := bySource[photo.Path]
		if !ok {
			continue
		}
		photo.Filename = name
		out.Photos = append(out.Photos, photo)
	}
	return out
}

func filterString(spec album.AlbumSpec) string {
	if !spec.HasDateFilter() {
		return ""
	}
	return spec.DateFilter.String()
}

func (r *Runner) journalRun(o *Outcome) *journal.Run {
	run := &journal.Run{
		ID:         o.RunID,
		Prompt:     o.Prompt,
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
		Status:     o.Status,
		DryRun:     o.DryRun,
		Mode:       o.Mode,
		SourceDir:  r.cfg.Paths.SourceDir,
		TargetDir:  r.cfg.Paths.TargetDir,
		Scanned:    o.Scanned,
		Matched:    o.Matched(),
		Unmatched:  len(o.Unmatched),
		LogPath:    o.LogPath,
	}
	for _, a := range o.Albums {
		entry := journal.Album{
			Name:        a.Album.SpecName,
			FolderLabel: a.Album.FolderLabel,
			Dir:         a.Dir,
			AnchorDate:  a.Album.AnchorDate,
			DateFilter:  filterString(a.Spec),
			Keywords:    a.Album.Keywords,
			PhotoCount:  len(a.Placed),
			TotalBytes:  a.Album.TotalBytes(),
		}
		for _, p := range a.Placed {
			entry.Placements = append(entry.Placements, journal.Placement{
				Source:      p.Source,
				Destination: p.Destination,
				Renamed:     p.Renamed,
			})
		}
		for _, f := range a.Failed {
			entry.Placements = append(entry.Placements, journal.Placement{Source: f.Source, Error: f.Reason})
		}
		run.Albums = append(run.Albums, entry)
	}
	for _, p := range o.Unmatched {
		run.UnmatchedPaths = append(run.UnmatchedPaths, p.Path)
	}
	return run
}

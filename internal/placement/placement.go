package placement

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"promptalbum/internal/album"
	"promptalbum/internal/fileutil"
	"promptalbum/internal/logging"
	"promptalbum/internal/services"
	"promptalbum/internal/textutil"
)

// LockFileName is created in the target root while a run is placing files.
const LockFileName = ".promptalbum.lock"

// Options configures a Placer.
type Options struct {
	Target             string
	Move               bool
	DryRun             bool
	PreserveTimestamps bool
}

// Placed records one photo's destination.
type Placed struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Renamed     bool   `json:"renamed"`
}

// Failure records a photo that could not be placed.
type Failure struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Result summarizes one album's placement.
type Result struct {
	Album  album.ResolvedAlbum
	Dir    string
	Files  []Placed
	Failed []Failure
}

// Placer writes albums into the target library.
type Placer struct {
	opts   Options
	logger *slog.Logger
	lock   *flock.Flock

	mu      sync.Mutex
	claimed map[string]struct{}
}

// New constructs a Placer.
func New(opts Options, logger *slog.Logger) *Placer {
	return &Placer{
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "placement"),
		lock:    flock.New(filepath.Join(opts.Target, LockFileName)),
		claimed: make(map[string]struct{}),
	}
}

// Lock acquires the target lock. Dry runs never lock. The returned function
// releases the lock.
func (p *Placer) Lock() (func(), error) {
	if p.opts.DryRun {
		return func() {}, nil
	}
	if err := os.MkdirAll(p.opts.Target, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "placement", "lock", "create target folder", err)
	}
	ok, err := p.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "placement", "lock", "acquire target lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConflict, "placement", "lock",
			fmt.Sprintf("another run is writing to %s", p.opts.Target), nil)
	}
	return func() {
		if err := p.lock.Unlock(); err != nil {
			p.logger.Warn("failed to release target lock", logging.Error(err))
		}
	}, nil
}

// AlbumDir returns the folder a resolved album is placed in.
func (p *Placer) AlbumDir(a album.ResolvedAlbum) (string, error) {
	name := textutil.SanitizeFileName(a.FolderLabel)
	if name == "" {
		return "", services.Wrap(services.ErrValidation, "placement", "folder",
			fmt.Sprintf("album %q has no usable folder name", a.SpecName), nil)
	}
	return filepath.Join(p.opts.Target, name), nil
}

// Place copies or moves the album's photos into its folder. Individual photo
// failures are collected in Result.Failed; an error is returned only when the
// folder itself cannot be prepared or ctx is cancelled.
func (p *Placer) Place(ctx context.Context, a album.ResolvedAlbum) (Result, error) {
	dir, err := p.AlbumDir(a)
	if err != nil {
		return Result{}, err
	}
	result := Result{Album: a, Dir: dir}
	logger := logging.WithContext(services.WithAlbum(ctx, filepath.Base(dir)), p.logger)

	if !p.opts.DryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, services.Wrap(services.ErrTransient, "placement", "mkdir", dir, err)
		}
	}

	for _, photo := range a.Photos {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		dest, renamed, err := p.claim(dir, photo.Filename)
		if err != nil {
			result.Failed = append(result.Failed, Failure{Source: photo.Path, Reason: err.Error()})
			continue
		}
		if renamed {
			logger.Info("name conflict resolved",
				logging.String("file", photo.Filename),
				logging.String("renamed_to", filepath.Base(dest)),
			)
		}
		if err := p.transfer(photo.Path, dest); err != nil {
			p.release(dest)
			logging.WarnWithContext(logger, "photo not placed", "placement_failed",
				logging.String("source", photo.Path),
				logging.String("destination", dest),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the source and target folders"),
				logging.String(logging.FieldImpact, "photo stays in the source folder"),
			)
			result.Failed = append(result.Failed, Failure{Source: photo.Path, Reason: err.Error()})
			continue
		}
		result.Files = append(result.Files, Placed{Source: photo.Path, Destination: dest, Renamed: renamed})
	}

	logger.Info("album placed",
		logging.String("dir", dir),
		logging.Int("photos", len(result.Files)),
		logging.Int("failed", len(result.Failed)),
		logging.Bool("dry_run", p.opts.DryRun),
	)
	return result, nil
}

func (p *Placer) transfer(src, dst string) error {
	if p.opts.DryRun {
		return nil
	}
	var err error
	if p.opts.Move {
		err = fileutil.MoveFile(src, dst)
	} else {
		err = fileutil.CopyFile(src, dst)
	}
	if err != nil {
		return err
	}
	if p.opts.PreserveTimestamps && !p.opts.Move {
		return fileutil.PreserveTimes(src, dst)
	}
	return nil
}

// claim reserves the first free variant of name in dir, considering both
// files on disk and destinations already handed out during this run.
func (p *Placer) claim(dir, name string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for n := 0; ; n++ {
		candidate := filepath.Join(dir, textutil.NumberedName(name, n))
		if _, taken := p.claimed[candidate]; taken {
			continue
		}
		_, err := os.Lstat(candidate)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, err
		}
		p.claimed[candidate] = struct{}{}
		return candidate, n > 0, nil
	}
}

func (p *Placer) release(path string) {
	p.mu.Lock()
	delete(p.claimed, path)
	p.mu.Unlock()
}

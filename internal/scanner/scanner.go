package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"promptalbum/internal/album"
	"promptalbum/internal/logging"
	"promptalbum/internal/services"
)

// Options configures a Scanner.
type Options struct {
	// Extensions are lowercase with a leading dot.
	Extensions []string
	Workers    int
	ReadEXIF   bool
	// Exclude lists directories that are never descended into.
	Exclude []string
}

// Scanner produces PhotoRecords for a directory tree.
type Scanner struct {
	exts     map[string]struct{}
	workers  int
	readEXIF bool
	exclude  map[string]struct{}
	logger   *slog.Logger
}

// New constructs a Scanner.
func New(opts Options, logger *slog.Logger) *Scanner {
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		if dir = strings.TrimSpace(dir); dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			exclude[filepath.Clean(abs)] = struct{}{}
		}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Scanner{
		exts:     exts,
		workers:  workers,
		readEXIF: opts.ReadEXIF,
		exclude:  exclude,
		logger:   logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan walks root and returns one record per supported file, sorted by path.
// Files whose metadata cannot be read are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]album.PhotoRecord, error) {
	paths, err := s.collect(ctx, root)
	if err != nil {
		return nil, err
	}

	records := make([]album.PhotoRecord, len(paths))
	ok := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			record, err := s.describe(path)
			if err != nil {
				logging.WarnWithContext(s.logger, "photo skipped; metadata unreadable", "scan_file_failed",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "photo excluded from this run"),
				)
				return nil
			}
			records[i] = record
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "scan", "extract", "metadata extraction interrupted", err)
	}

	out := make([]album.PhotoRecord, 0, len(records))
	for i, rec := range records {
		if ok[i] {
			out = append(out, rec)
		}
	}
	s.logger.Info("scan complete",
		logging.String("root", root),
		logging.Int("candidates", len(paths)),
		logging.Int("photos", len(out)),
	)
	return out, nil
}

func (s *Scanner) collect(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "scan", "walk", fmt.Sprintf("source folder %s does not exist", root), nil)
		}
		return nil, services.Wrap(services.ErrTransient, "scan", "walk", "stat source folder", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "scan", "walk", fmt.Sprintf("source %s is not a directory", root), nil)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logging.WarnWithContext(s.logger, "directory skipped; not readable", "scan_dir_failed",
				logging.String("path", path),
				logging.Error(walkErr),
				logging.String(logging.FieldImpact, "photos below this path are not scanned"),
			)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && s.skipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := s.exts[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "scan", "walk", "walk source folder", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Scanner) skipDir(path, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if len(s.exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, skip := s.exclude[filepath.Clean(abs)]
	return skip
}

func (s *Scanner) describe(path string) (album.PhotoRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return album.PhotoRecord{}, err
	}
	record := album.PhotoRecord{
		Path:         path,
		Filename:     filepath.Base(path),
		FolderName:   filepath.Base(filepath.Dir(path)),
		FileModified: info.ModTime(),
		FileCreated:  changeTime(info),
		SizeBytes:    info.Size(),
	}
	if !s.readEXIF {
		return record, nil
	}
	meta, err := ReadEXIF(path)
	if err != nil {
		s.logger.Debug("exif unavailable; using file timestamps",
			logging.String("path", path),
			logging.Error(err),
		)
		return record, nil
	}
	record.ExifDate = meta.Taken
	record.Camera = meta.Camera
	record.Location = meta.Location
	return record, nil
}

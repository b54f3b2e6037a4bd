package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"promptalbum/internal/config"
)

// runLogLayout names the per-run log file.
const runLogLayout = "2006-01-02_15-04-05"

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	Writers     []io.Writer
	Development bool
}

// New constructs a slog logger. Without writers it writes to stderr so stdout
// stays free for command output. Caller locations are added at debug level or
// when Development is set.
func New(opts Options) (*slog.Logger, error) {
	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))
	addSource := opts.Development || level.Level() <= slog.LevelDebug
	out := combineWriters(opts.Writers)

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		return slog.New(newConsoleHandler(out, level, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(out, level, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

func combineWriters(writers []io.Writer) io.Writer {
	switch len(writers) {
	case 0:
		return os.Stderr
	case 1:
		return writers[0]
	}
	return io.MultiWriter(writers...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// RunLogName returns the log file name for a run started at ts.
func RunLogName(ts time.Time) string {
	return ts.In(time.Local).Format(runLogLayout) + ".log"
}

// Session is a logger bound to the log file of a single run.
type Session struct {
	Logger *slog.Logger
	// Path is the run log file, empty when no log directory is configured.
	Path string
	file *os.File
}

// Close closes the run log file. It is safe to call more than once.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// NewFromConfig creates a logger that tees console output into
// <log_dir>/<YYYY-MM-DD_HH-MM-SS>.log, named after startedAt.
func NewFromConfig(cfg *config.Config, console io.Writer, startedAt time.Time) (*Session, error) {
	if console == nil {
		console = os.Stderr
	}
	opts := Options{Level: "info", Writers: []io.Writer{console}}
	session := &Session{}

	if cfg != nil {
		opts.Level, opts.Format = cfg.Logging.Level, cfg.Logging.Format
		if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
			file, path, err := openRunLog(dir, startedAt)
			if err != nil {
				return nil, err
			}
			session.file, session.Path = file, path
			opts.Writers = append(opts.Writers, file)
		}
	}

	logger, err := New(opts)
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	session.Logger = logger
	return session, nil
}

func openRunLog(dir string, startedAt time.Time) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("ensure log directory: %w", err)
	}
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	path := filepath.Join(dir, RunLogName(startedAt))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, "", fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, path, nil
}

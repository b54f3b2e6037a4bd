package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PruneRunLogs removes run logs in dir whose last write is older than
// retentionDays and returns how many were removed. Only files named like
// RunLogName output are considered, and current is never removed. A
// retentionDays value of 0 disables pruning.
func PruneRunLogs(logger *slog.Logger, dir string, retentionDays int, current string) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	keep := absPath(current)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isRunLogName(entry.Name()) {
			continue
		}
		path := absPath(filepath.Join(dir, entry.Name()))
		if path == keep {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on log_dir"),
				String(FieldImpact, "old run log stays on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("run log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}

func isRunLogName(name string) bool {
	stem, ok := strings.CutSuffix(name, ".log")
	if !ok {
		return false
	}
	_, err := time.ParseInLocation(runLogLayout, stem, time.Local)
	return err == nil
}

func absPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

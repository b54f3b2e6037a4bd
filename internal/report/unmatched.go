package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"promptalbum/internal/album"
)

// UnmatchedLogName is written into the log directory after every non-dry run.
const UnmatchedLogName = "unmatched.log"

// WriteUnmatched replaces <dir>/unmatched.log with a header followed by one
// photo path per line, in scan order.
func WriteUnmatched(dir string, unmatched []album.PhotoRecord, generated time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, UnmatchedLogName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create unmatched log: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# Unmatched Photos Log\n")
	fmt.Fprintf(w, "# Generated: %s\n", generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "# Total unmatched: %d\n\n", len(unmatched))
	for _, p := range unmatched {
		fmt.Fprintln(w, p.Path)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("write unmatched log: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close unmatched log: %w", err)
	}
	return path, nil
}

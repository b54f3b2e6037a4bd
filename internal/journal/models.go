package journal

import "time"

// Status summarizes how a run ended.
type Status string

const (
	StatusCompleted Status = "completed"
	// StatusPartial marks runs where at least one photo failed to place.
	StatusPartial Status = "partial"
	StatusDryRun  Status = "dry_run"
)

// Run is one journaled organize run.
type Run struct {
	ID         string    `json:"id"`
	Prompt     string    `json:"prompt"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     Status    `json:"status"`
	DryRun     bool      `json:"dry_run"`
	Mode       string    `json:"mode"`
	SourceDir  string    `json:"source_dir"`
	TargetDir  string    `json:"target_dir"`
	Scanned    int       `json:"scanned"`
	Matched    int       `json:"matched"`
	Unmatched  int       `json:"unmatched"`
	LogPath    string    `json:"log_path,omitempty"`

	// Albums and UnmatchedPaths are populated by GetRun only.
	Albums         []Album  `json:"albums,omitempty"`
	UnmatchedPaths []string `json:"unmatched_paths,omitempty"`
}

// Duration is the wall time the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Album is an album produced by a run.
type Album struct {
	Name        string      `json:"name"`
	FolderLabel string      `json:"folder_label"`
	Dir         string      `json:"dir"`
	AnchorDate  time.Time   `json:"anchor_date"`
	DateFilter  string      `json:"date_filter,omitempty"`
	Keywords    []string    `json:"keywords"`
	PhotoCount  int         `json:"photo_count"`
	TotalBytes  int64       `json:"total_bytes"`
	Placements  []Placement `json:"placements,omitempty"`
}

// Placement is one photo's outcome within an album.
type Placement struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Renamed     bool   `json:"renamed,omitempty"`
	Error       string `json:"error,omitempty"`
}

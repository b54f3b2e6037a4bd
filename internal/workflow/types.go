package workflow

import (
	"time"

	"promptalbum/internal/album"
	"promptalbum/internal/journal"
	"promptalbum/internal/placement"
)

// Options describes one organize request.
type Options struct {
	Prompt string
	DryRun bool
	// Mode overrides organize.mode when set ("copy" or "move").
	Mode string
	// DateOverride replaces every spec's date filter when non-nil.
	DateOverride *album.DateFilter
}

// PlannedAlbum is a labelled, non-empty group awaiting placement.
type PlannedAlbum struct {
	Spec  album.AlbumSpec
	Album album.ResolvedAlbum
}

// Plan is the read-only result of parsing, scanning, and assigning.
type Plan struct {
	Specs      []album.AlbumSpec
	Unresolved []*album.UnresolvedDateError
	Photos     []album.PhotoRecord
	Result     album.MatchResult
	Albums     []PlannedAlbum
	// Unmatched includes photos of groups that could not be labelled.
	Unmatched []album.PhotoRecord
}

// AlbumOutcome is one placed album.
type AlbumOutcome struct {
	Spec   album.AlbumSpec
	Album  album.ResolvedAlbum
	Dir    string
	Placed []placement.Placed
	Failed []placement.Failure
}

// Outcome summarizes a completed run.
type Outcome struct {
	RunID      string
	Prompt     string
	DryRun     bool
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     journal.Status

	Specs      []album.AlbumSpec
	Unresolved []*album.UnresolvedDateError
	Empty      []album.AlbumSpec
	Scanned    int
	Albums     []AlbumOutcome
	Unmatched  []album.PhotoRecord

	UnmatchedLog string
	GalleryPath  string
	LogPath      string
}

// Matched is the number of photos placed (or planned, on a dry run).
func (o *Outcome) Matched() int {
	total := 0
	for _, a := range o.Albums {
		total += len(a.Placed)
	}
	return total
}

// FailedCount is the number of photos that could not be placed.
func (o *Outcome) FailedCount() int {
	total := 0
	for _, a := range o.Albums {
		total += len(a.Failed)
	}
	return total
}

// TotalBytes sums the sizes of every album's photos.
func (o *Outcome) TotalBytes() int64 {
	var total int64
	for _, a := range o.Albums {
		total += a.Album.TotalBytes()
	}
	return total
}

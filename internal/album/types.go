package album

import (
	"time"
)

// AlbumSpec is one album requested by the prompt.
type AlbumSpec struct {
	Name          string      `json:"name"`
	Keywords      []string    `json:"keywords"`
	DateFilter    *DateFilter `json:"date_filter,omitempty"`
	SequenceIndex int         `json:"sequence_index"`
}

// HasDateFilter reports whether the spec carries a date constraint.
func (s AlbumSpec) HasDateFilter() bool {
	return s.DateFilter != nil
}

// GeoPoint is a decimal-degree GPS position.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PhotoRecord is the metadata the scanner yields for one file. Zero times
// mean the corresponding date is unknown; at least one of the three dates is
// expected to be set.
type PhotoRecord struct {
	Path         string
	Filename     string
	FolderName   string
	FileCreated  time.Time
	FileModified time.Time
	ExifDate     time.Time
	SizeBytes    int64

	Camera   string
	Location *GeoPoint
}

// EffectiveDate returns the EXIF capture date when known, else the
// modification time, else the creation time.
func (p PhotoRecord) EffectiveDate() (time.Time, bool) {
	switch {
	case !p.ExifDate.IsZero():
		return p.ExifDate, true
	case !p.FileModified.IsZero():
		return p.FileModified, true
	case !p.FileCreated.IsZero():
		return p.FileCreated, true
	default:
		return time.Time{}, false
	}
}

// Group is the ordered set of photos assigned to one spec.
type Group struct {
	Spec   AlbumSpec
	Photos []PhotoRecord
}

// MatchResult partitions a photo batch across the specs of one prompt.
// Groups has one entry per spec in ascending sequence order, including specs
// that matched nothing; photos keep their scan order inside each group.
type MatchResult struct {
	Groups    []Group
	Unmatched []PhotoRecord
}

// Matched returns album name to photos. Specs sharing a name are merged in
// sequence order.
func (r MatchResult) Matched() map[string][]PhotoRecord {
	out := make(map[string][]PhotoRecord, len(r.Groups))
	for _, g := range r.Groups {
		if len(g.Photos) == 0 {
			continue
		}
		out[g.Spec.Name] = append(out[g.Spec.Name], g.Photos...)
	}
	return out
}

// NonEmpty returns the groups that received at least one photo.
func (r MatchResult) NonEmpty() []Group {
	out := make([]Group, 0, len(r.Groups))
	for _, g := range r.Groups {
		if len(g.Photos) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// EmptyGroups returns the specs that matched no photo.
func (r MatchResult) EmptyGroups() []AlbumSpec {
	var out []AlbumSpec
	for _, g := range r.Groups {
		if len(g.Photos) == 0 {
			out = append(out, g.Spec)
		}
	}
	return out
}

// MatchedCount is the number of photos placed in any group.
func (r MatchResult) MatchedCount() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Photos)
	}
	return total
}

// Total is the number of photos the result accounts for.
func (r MatchResult) Total() int {
	return r.MatchedCount() + len(r.Unmatched)
}

// ResolvedAlbum is a non-empty group with its on-disk label.
type ResolvedAlbum struct {
	SpecName    string
	FolderLabel string
	AnchorDate  time.Time
	Keywords    []string
	Photos      []PhotoRecord
}

// DateSpan returns the earliest and latest effective dates in the album.
func (a ResolvedAlbum) DateSpan() (time.Time, time.Time) {
	return dateSpan(a.Photos)
}

// TotalBytes sums the sizes of the album's photos.
func (a ResolvedAlbum) TotalBytes() int64 {
	var total int64
	for _, p := range a.Photos {
		total += p.SizeBytes
	}
	return total
}

func dateSpan(photos []PhotoRecord) (time.Time, time.Time) {
	var earliest, latest time.Time
	for _, p := range photos {
		d, ok := p.EffectiveDate()
		if !ok {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
		if latest.IsZero() || d.After(latest) {
			latest = d
		}
	}
	return earliest, latest
}

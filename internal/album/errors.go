package album

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAlbumSet is returned when a prompt yields no album specs.
	ErrEmptyAlbumSet = errors.New("no albums could be extracted from prompt")
	// ErrEmptyMatchGroup marks a spec that matched no photos.
	ErrEmptyMatchGroup = errors.New("album matched no photos")
	// ErrUnresolvedDate marks a date-shaped fragment that did not resolve.
	ErrUnresolvedDate = errors.New("unresolved date fragment")
)

// EmptyMatchGroupError reports the spec whose group is empty.
type EmptyMatchGroupError struct {
	Spec AlbumSpec
}

func (e *EmptyMatchGroupError) Error() string {
	return fmt.Sprintf("album %q matched no photos", e.Spec.Name)
}

func (e *EmptyMatchGroupError) Unwrap() error { return ErrEmptyMatchGroup }

// UnresolvedDateError is a non-fatal parse diagnostic: the clause keeps its
// keywords but carries no date filter.
type UnresolvedDateError struct {
	Clause        string
	Fragment      string
	SequenceIndex int
}

func (e *UnresolvedDateError) Error() string {
	return fmt.Sprintf("clause %d %q: could not resolve date %q", e.SequenceIndex, e.Clause, e.Fragment)
}

func (e *UnresolvedDateError) Unwrap() error { return ErrUnresolvedDate }

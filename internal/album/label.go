package album

import (
	"fmt"
	"strings"
	"time"
)

// Label resolves the folder label and anchor date for a matched group. The
// anchor is the start of the spec's date filter when present, otherwise the
// earliest effective date among photos.
func Label(spec AlbumSpec, photos []PhotoRecord) (ResolvedAlbum, error) {
	if len(photos) == 0 {
		return ResolvedAlbum{}, &EmptyMatchGroupError{Spec: spec}
	}

	var anchor time.Time
	if spec.DateFilter != nil {
		anchor = spec.DateFilter.StartDate()
	} else {
		anchor, _ = dateSpan(photos)
		if anchor.IsZero() {
			return ResolvedAlbum{}, fmt.Errorf("album %q: no photo carries a date", spec.Name)
		}
	}

	return ResolvedAlbum{
		SpecName:    spec.Name,
		FolderLabel: FolderLabel(anchor, spec.Name),
		AnchorDate:  anchor,
		Keywords:    append([]string(nil), spec.Keywords...),
		Photos:      photos,
	}, nil
}

// FolderLabel formats YYYY-MM-Name with whitespace runs in name replaced by
// single hyphens. Casing is preserved.
func FolderLabel(anchor time.Time, name string) string {
	return fmt.Sprintf("%04d-%02d-%s", anchor.Year(), int(anchor.Month()), strings.Join(strings.Fields(name), "-"))
}

package matcher

import (
	"sort"

	"promptalbum/internal/album"
)

// Assign partitions photos across specs. Photos are visited in input order
// and each goes to the first spec, by ascending SequenceIndex, whose
// predicate matches; photos matching nothing are collected in Unmatched.
// The result has one group per spec, including empty ones.
func Assign(specs []album.AlbumSpec, photos []album.PhotoRecord) album.MatchResult {
	ordered := make([]album.AlbumSpec, len(specs))
	copy(ordered, specs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceIndex < ordered[j].SequenceIndex
	})

	predicates := make([]*Predicate, len(ordered))
	result := album.MatchResult{Groups: make([]album.Group, len(ordered))}
	for i, spec := range ordered {
		predicates[i] = Compile(spec)
		result.Groups[i] = album.Group{Spec: spec}
	}

	for _, photo := range photos {
		placed := false
		for i, predicate := range predicates {
			if predicate.Matches(photo) {
				result.Groups[i].Photos = append(result.Groups[i].Photos, photo)
				placed = true
				break
			}
		}
		if !placed {
			result.Unmatched = append(result.Unmatched, photo)
		}
	}
	return result
}

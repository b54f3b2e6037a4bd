package matcher

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"promptalbum/internal/album"
)

type keywordPattern struct {
	keyword string
	literal string
	glob    *regexp.Regexp
}

func (k keywordPattern) match(folded string) bool {
	if k.glob != nil {
		return k.glob.MatchString(folded)
	}
	return strings.Contains(folded, k.literal)
}

// Predicate is the compiled form of one album spec.
type Predicate struct {
	spec     album.AlbumSpec
	patterns []keywordPattern
}

// Compile translates the spec's keywords into reusable matchers.
func Compile(spec album.AlbumSpec) *Predicate {
	fold := cases.Fold()
	patterns := make([]keywordPattern, 0, len(spec.Keywords))
	for _, keyword := range spec.Keywords {
		folded := fold.String(strings.TrimSpace(keyword))
		if folded == "" {
			continue
		}
		pattern := keywordPattern{keyword: keyword}
		if strings.Contains(folded, "*") {
			pattern.glob = compileGlob(folded)
		} else {
			pattern.literal = folded
		}
		patterns = append(patterns, pattern)
	}
	return &Predicate{spec: spec, patterns: patterns}
}

// compileGlob anchors the keyword at the start of the text only; '*'
// matches any run of characters and everything else is literal. "img*"
// is a prefix test, "*fest" finds "fest" anywhere.
func compileGlob(keyword string) *regexp.Regexp {
	parts := strings.Split(keyword, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile(`(?s)^` + strings.Join(parts, ".*"))
}

// Spec returns the spec the predicate was compiled from.
func (p *Predicate) Spec() album.AlbumSpec {
	return p.spec
}

// Matches is the OR of the filename, folder, and date checks.
func (p *Predicate) Matches(photo album.PhotoRecord) bool {
	return p.MatchesFilename(photo.Filename) ||
		p.MatchesFolder(photo.FolderName) ||
		p.MatchesDate(photo)
}

// MatchesFilename reports whether any keyword matches the filename.
func (p *Predicate) MatchesFilename(filename string) bool {
	return p.matchText(filename)
}

// MatchesFolder reports whether any keyword matches the folder name.
func (p *Predicate) MatchesFolder(folder string) bool {
	return p.matchText(folder)
}

// MatchesDate reports whether the photo's effective date lies inside the
// spec's date filter. A spec without a filter never matches on date.
func (p *Predicate) MatchesDate(photo album.PhotoRecord) bool {
	if !p.spec.HasDateFilter() {
		return false
	}
	when, ok := photo.EffectiveDate()
	if !ok {
		return false
	}
	return p.spec.DateFilter.Contains(when)
}

func (p *Predicate) matchText(text string) bool {
	if text == "" || len(p.patterns) == 0 {
		return false
	}
	folded := cases.Fold().String(text)
	for _, pattern := range p.patterns {
		if pattern.match(folded) {
			return true
		}
	}
	return false
}

// Evaluates compiles spec and tests photo against it. Callers checking many
// photos should Compile once instead.
func Evaluates(photo album.PhotoRecord, spec album.AlbumSpec) bool {
	return Compile(spec).Matches(photo)
}

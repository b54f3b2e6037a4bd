package dateexpr

import (
	"regexp"
)

// Match locates a date expression inside a longer text.
type Match struct {
	Text  string
	Start int
	End   int
	Kind  Kind
}

type scanPattern struct {
	kind Kind
	re   *regexp.Regexp
}

// Scanned in priority order; the first pattern with any hit wins.
var scanPatterns = []scanPattern{
	{KindISODate, regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)},
	{KindISOMonth, regexp.MustCompile(`\b\d{4}-\d{2}\b`)},
	{KindMonthYear, regexp.MustCompile(`(?i)\b(?:` + monthAlternation + `)\.?\s+\d{4}\b`)},
	{KindYear, regexp.MustCompile(`\b\d{4}\b`)},
}

// Find returns the highest-priority date-shaped substring of text. The
// substring is not guaranteed to resolve; pass Match.Text to Resolve.
func Find(text string) (Match, bool) {
	for _, p := range scanPatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		return Match{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1], Kind: p.kind}, true
	}
	return Match{}, false
}

package prompt

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"promptalbum/internal/album"
	"promptalbum/internal/dateexpr"
)

var clauseSeparator = regexp.MustCompile(`(?i),|\band\b|\bor\b`)

// Result is the outcome of parsing one prompt.
type Result struct {
	Specs []album.AlbumSpec
	// Unresolved lists date-shaped fragments that did not resolve. The
	// affected clauses are still present in Specs without a date filter.
	Unresolved []*album.UnresolvedDateError
}

// Parser converts prompts into album specs using a fixed vocabulary.
type Parser struct {
	vocab Vocabulary
}

// NewParser builds a parser for the supplied vocabulary.
func NewParser(vocab Vocabulary) *Parser {
	return &Parser{vocab: vocab.normalized()}
}

// Parse splits prompt into clauses and returns one spec per clause that
// still has a name once its date and filler are removed. It returns
// album.ErrEmptyAlbumSet when no clause survives.
func (p *Parser) Parse(prompt string) (Result, error) {
	var result Result
	lower := cases.Lower(language.Und)

	position := 0
	for _, raw := range clauseSeparator.Split(prompt, -1) {
		clause := collapseSpace(raw)
		if clause == "" {
			continue
		}
		index := position
		position++

		// Filler goes first so a connector inside a stop phrase ("photos
		// of 2024") is not mistaken for a date connector.
		text := p.stripLeadingPhrases(clause)
		var filter *album.DateFilter
		if match, ok := dateexpr.Find(text); ok {
			if resolved, ok := dateexpr.Resolve(match.Text); ok {
				filter = &resolved
			} else {
				result.Unresolved = append(result.Unresolved, &album.UnresolvedDateError{
					Clause:        clause,
					Fragment:      match.Text,
					SequenceIndex: index,
				})
			}
			text = p.stripDate(text, match)
		}

		name := p.stripLeadingPhrases(text)
		if name == "" {
			continue
		}

		result.Specs = append(result.Specs, album.AlbumSpec{
			Name:          name,
			Keywords:      p.keywords(name, lower),
			DateFilter:    filter,
			SequenceIndex: index,
		})
	}

	if len(result.Specs) == 0 {
		return result, album.ErrEmptyAlbumSet
	}
	return result, nil
}

// stripDate removes the date substring and a connector word directly before it.
func (p *Parser) stripDate(text string, match dateexpr.Match) string {
	before := strings.Fields(text[:match.Start])
	if n := len(before); n > 0 && contains(p.vocab.DateConnectors, strings.ToLower(before[n-1])) {
		before = before[:n-1]
	}
	after := strings.Fields(text[match.End:])
	return strings.Join(append(before, after...), " ")
}

func (p *Parser) stripLeadingPhrases(text string) string {
	words := strings.Fields(text)
	for len(words) > 0 {
		stripped := false
		for _, phrase := range p.vocab.StopPhrases {
			if n := hasPhrasePrefix(words, phrase); n > 0 {
				words = words[n:]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.Join(words, " ")
}

// hasPhrasePrefix reports how many leading words of words spell phrase,
// compared case-insensitively, or zero when they do not.
func hasPhrasePrefix(words []string, phrase string) int {
	parts := strings.Fields(phrase)
	if len(parts) == 0 || len(parts) > len(words) {
		return 0
	}
	for i, part := range parts {
		if !strings.EqualFold(words[i], part) {
			return 0
		}
	}
	return len(parts)
}

func (p *Parser) keywords(name string, lower cases.Caser) []string {
	tokens := strings.Fields(name)
	all := make([]string, 0, len(tokens))
	filtered := make([]string, 0, len(tokens))
	seenAll := map[string]struct{}{}
	seenFiltered := map[string]struct{}{}
	for _, token := range tokens {
		word := lower.String(token)
		if _, ok := seenAll[word]; !ok {
			seenAll[word] = struct{}{}
			all = append(all, word)
		}
		if contains(p.vocab.StopWords, word) {
			continue
		}
		if _, ok := seenFiltered[word]; !ok {
			seenFiltered[word] = struct{}{}
			filtered = append(filtered, word)
		}
	}
	if len(filtered) == 0 {
		return all
	}
	return filtered
}

// OverrideDates returns copies of specs whose date filter is replaced by
// filter. Passing nil clears every filter.
func OverrideDates(specs []album.AlbumSpec, filter *album.DateFilter) []album.AlbumSpec {
	out := make([]album.AlbumSpec, len(specs))
	for i, spec := range specs {
		spec.Keywords = append([]string(nil), spec.Keywords...)
		if filter != nil {
			f := *filter
			spec.DateFilter = &f
		} else {
			spec.DateFilter = nil
		}
		out[i] = spec
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package prompt

import (
	"sort"
	"strings"
)

// Vocabulary holds the word lists the parser consults.
type Vocabulary struct {
	// StopPhrases are filler phrases removed from the start of a clause,
	// repeatedly, before the remainder becomes the album name.
	StopPhrases []string
	// StopWords are dropped from keywords unless that would leave none.
	StopWords []string
	// DateConnectors are removed when they directly precede a date
	// expression ("fests in March 2024").
	DateConnectors []string
}

// DefaultVocabulary returns the built-in word lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		StopPhrases: []string{
			"create",
			"organize",
			"albums for",
			"album for",
			"photos of",
			"pictures of",
			"photos from",
		},
		StopWords:      []string{"the", "a", "of", "in", "for"},
		DateConnectors: []string{"in", "on", "from", "during", "of", "since", "at"},
	}
}

// normalized lowercases and de-duplicates the lists, ordering stop phrases
// longest first so "albums for" is tried before a shorter overlapping entry.
func (v Vocabulary) normalized() Vocabulary {
	phrases := normalizeList(v.StopPhrases)
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})
	return Vocabulary{
		StopPhrases:    phrases,
		StopWords:      normalizeList(v.StopWords),
		DateConnectors: normalizeList(v.DateConnectors),
	}
}

func normalizeList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.Join(strings.Fields(value), " "))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func contains(list []string, word string) bool {
	for _, entry := range list {
		if entry == word {
			return true
		}
	}
	return false
}

// Package prompt turns a free-text album request into ordered album specs.
//
// A prompt is split into clauses on commas and the conjunctions "and"/"or".
// Each clause contributes at most one date expression (resolved through
// dateexpr), a display name with leading filler phrases removed, and a
// lowercase keyword set. Clause order is preserved in SequenceIndex, which
// later decides first-match precedence.
//
// Word lists are supplied through Vocabulary so parsing stays a pure
// function of its inputs.
package prompt

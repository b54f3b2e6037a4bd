// Package dateexpr recognises the small set of date expressions a prompt may
// carry and turns them into album.DateFilter values.
//
// Accepted shapes are ISO dates (YYYY-MM-DD), ISO months (YYYY-MM), a month
// name or abbreviation followed by a four-digit year, and a bare four-digit
// year. Anything else, including two-digit years and day numbers without a
// month, resolves to nothing rather than a guess.
package dateexpr

// Package matcher decides which album each photo belongs to.
//
// A Predicate is compiled once per album spec and evaluates three
// independent signals against a photo: the filename, the parent folder name,
// and the effective date. Any one signal is enough. Keywords without a '*'
// match as case-insensitive substrings; keywords containing '*' are globs
// anchored on the whole name.
//
// Assign applies the predicates in ascending sequence order so a photo that
// satisfies several specs lands only in the earliest one.
package matcher

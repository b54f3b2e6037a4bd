// Package journal persists a history of organize runs in SQLite.
//
// Each run records its prompt, mode, counts, the albums it produced with
// their placements, and the photos left unmatched. The journal is write-once
// history for the history and export commands; matching never reads it.
//
// The database lives at <state_dir>/journal.db. A schema_version row guards
// against opening a database written by an incompatible build.
package journal

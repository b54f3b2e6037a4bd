// Package album defines the values that flow through album building: parsed
// album specifications with their optional date filters, scanned photo
// records, the partition produced by assignment, and the resolved albums
// handed to placement and documentation.
//
// The types are plain immutable values. Producers (the prompt parser, the
// scanner, the assignment engine) construct them once and every consumer
// treats them as read-only. Label is the only behaviour that lives here: it
// projects a matched group onto its folder label and anchor date without
// touching the filesystem.
package album

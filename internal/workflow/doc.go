// Package workflow runs a prompt end to end: parse the prompt, scan the
// source tree, assign photos to albums, label the albums, place them in the
// target library, write documentation and reports, and journal the run.
//
// Plan performs the read-only half (parse, scan, assign, label) and backs
// the preview commands. Run builds on Plan and performs the writes. Every
// log line emitted during a run carries its run_id; stage failures are
// wrapped with services markers so the CLI can map them to exit codes.
package workflow

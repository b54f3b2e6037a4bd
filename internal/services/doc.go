// Package services defines shared utilities consumed by the workflow stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and album labels for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into consistent CLI exit codes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services

// Package main hosts the promptalbum CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds a
// run logger, and hands prompts to the workflow runner. Commands render either
// go-pretty tables or indented JSON; all diagnostics go to stderr so --json
// output stays machine readable.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main

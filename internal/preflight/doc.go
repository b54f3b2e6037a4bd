// Package preflight provides readiness checks for the filesystem paths a run
// depends on.
//
// These checks run in two contexts:
//   - The workflow runner calls RunAll before placing photos. If any check
//     fails the run stops before a single file is copied or moved.
//   - The CLI "config validate" command prints every result.
//
// Directories that do not exist yet pass when their nearest existing
// ancestor is writable, since the workflow creates them on demand.
package preflight

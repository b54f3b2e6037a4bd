package preflight

import (
	"promptalbum/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckReadable("Source folder", cfg.Paths.SourceDir),
		CheckWritable("Album library", cfg.Paths.TargetDir),
		CheckWritable("Log folder", cfg.Paths.LogDir),
		CheckWritable("State folder", cfg.Paths.StateDir),
	}
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

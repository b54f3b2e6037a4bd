package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	stageKey contextKey = "stage"
	albumKey contextKey = "album"
)

// WithRunID annotates context with the organize run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the workflow stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithAlbum annotates context with the album folder currently being written.
func WithAlbum(ctx context.Context, album string) context.Context {
	if album == "" {
		return ctx
	}
	return context.WithValue(ctx, albumKey, album)
}

// AlbumFromContext returns the album folder label if present.
func AlbumFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(albumKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

package services_test

import (
	"context"
	"testing"

	"promptalbum/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "placement")
	ctx = services.WithAlbum(ctx, "2024-03-college-fests")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "placement" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if album, ok := services.AlbumFromContext(ctx); !ok || album != "2024-03-college-fests" {
		t.Fatalf("unexpected album: %v %v", album, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(services.WithRunID(ctx, "")); ok {
		t.Fatal("expected no run id value")
	}
}

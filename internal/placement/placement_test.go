package placement_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"promptalbum/internal/album"
	"promptalbum/internal/logging"
	"promptalbum/internal/placement"
	"promptalbum/internal/services"
	"promptalbum/internal/testsupport"
)

func resolved(t *testing.T, label string, paths ...string) album.ResolvedAlbum {
	t.Helper()
	photos := make([]album.PhotoRecord, 0, len(paths))
	for _, path := range paths {
		photos = append(photos, testsupport.Photo(path))
	}
	return album.ResolvedAlbum{SpecName: label, FolderLabel: label, Photos: photos}
}

func TestPlaceCopiesAndResolvesConflicts(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "albums")
	first := filepath.Join(base, "src", "day1", "IMG.jpg")
	second := filepath.Join(base, "src", "day2", "IMG.jpg")
	testsupport.WriteFile(t, first, 3)
	testsupport.WriteFile(t, second, 5)
	stamp := time.Date(2021, 5, 1, 8, 0, 0, 0, time.UTC)
	testsupport.Touch(t, first, stamp)

	// A file already present in the album folder forces the first suffix.
	existing := filepath.Join(target, "2024-03-College-Fests", "IMG.jpg")
	testsupport.WriteFile(t, existing, 1)

	placer := placement.New(placement.Options{Target: target, PreserveTimestamps: true}, logging.NewNop())
	res, err := placer.Place(context.Background(), resolved(t, "2024-03-College-Fests", first, second))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(res.Failed) != 0 {
		t.Fatalf("unexpected failures: %+v", res.Failed)
	}
	want := []string{
		filepath.Join(target, "2024-03-College-Fests", "IMG_1.jpg"),
		filepath.Join(target, "2024-03-College-Fests", "IMG_2.jpg"),
	}
	for i, placed := range res.Files {
		if placed.Destination != want[i] || !placed.Renamed {
			t.Fatalf("file %d: got %+v want %s renamed", i, placed, want[i])
		}
	}
	for _, src := range []string{first, second} {
		if _, err := os.Stat(src); err != nil {
			t.Fatalf("copy mode must keep source %s: %v", src, err)
		}
	}
	info, err := os.Stat(want[0])
	if err != nil {
		t.Fatalf("stat placed: %v", err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Fatalf("expected preserved mtime %v, got %v", stamp, info.ModTime())
	}
}

func TestPlaceMoveRemovesSource(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src", "a.jpg")
	testsupport.WriteFile(t, src, 4)

	placer := placement.New(placement.Options{Target: filepath.Join(base, "albums"), Move: true}, logging.NewNop())
	res, err := placer.Place(context.Background(), resolved(t, "2023-01-Trip", src))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected one placed file, got %+v", res)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source moved, stat err=%v", err)
	}
	if _, err := os.Stat(res.Files[0].Destination); err != nil {
		t.Fatalf("expected destination: %v", err)
	}
}

func TestPlaceDryRunTouchesNothing(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "albums")
	a := filepath.Join(base, "src", "x", "dup.jpg")
	b := filepath.Join(base, "src", "y", "dup.jpg")
	testsupport.WriteFile(t, a, 1)
	testsupport.WriteFile(t, b, 1)

	placer := placement.New(placement.Options{Target: target, DryRun: true}, logging.NewNop())
	unlock, err := placer.Lock()
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	res, err := placer.Place(context.Background(), resolved(t, "2024-01-Dup", a, b))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(res.Files) != 2 || filepath.Base(res.Files[1].Destination) != "dup_1.jpg" {
		t.Fatalf("expected planned conflict suffix, got %+v", res.Files)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("dry run created target folder: %v", err)
	}
}

func TestPlaceRecordsMissingSource(t *testing.T) {
	base := t.TempDir()
	placer := placement.New(placement.Options{Target: filepath.Join(base, "albums")}, logging.NewNop())
	res, err := placer.Place(context.Background(), resolved(t, "2024-02-Gone", filepath.Join(base, "missing.jpg")))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(res.Files) != 0 || len(res.Failed) != 1 {
		t.Fatalf("expected one failure, got %+v", res)
	}
	if res.Failed[0].Reason == "" {
		t.Fatal("expected failure reason")
	}
}

func TestAlbumDirSanitizesLabel(t *testing.T) {
	placer := placement.New(placement.Options{Target: "/lib"}, logging.NewNop())
	dir, err := placer.AlbumDir(album.ResolvedAlbum{SpecName: "AC/DC", FolderLabel: "2024-03-AC/DC"})
	if err != nil {
		t.Fatalf("AlbumDir: %v", err)
	}
	if dir != filepath.Join("/lib", "2024-03-AC-DC") {
		t.Fatalf("unexpected dir %q", dir)
	}
	if _, err := placer.AlbumDir(album.ResolvedAlbum{FolderLabel: "??"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLockIsExclusive(t *testing.T) {
	target := t.TempDir()
	first := placement.New(placement.Options{Target: target}, logging.NewNop())
	second := placement.New(placement.Options{Target: target}, logging.NewNop())

	unlock, err := first.Lock()
	if err != nil {
		t.Fatalf("first Lock: %v", err)
	}
	if _, err := second.Lock(); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict while locked, got %v", err)
	}
	unlock()

	unlockAgain, err := second.Lock()
	if err != nil {
		t.Fatalf("second Lock after release: %v", err)
	}
	unlockAgain()
}

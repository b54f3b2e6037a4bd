package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptalbum/internal/testsupport"
)

func TestCheckReadable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing dir", dir, true},
		{"missing", filepath.Join(dir, "nope"), false},
		{"file", file, false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckReadable("source", tt.path)
			if result.Passed != tt.want {
				t.Fatalf("Passed=%v want %v (%s)", result.Passed, tt.want, result.Detail)
			}
			if result.Detail == "" {
				t.Fatal("expected non-empty detail")
			}
		})
	}
}

func TestCheckWritableMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums", "nested")
	result := CheckWritable("target", path)
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckWritableRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "albums")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckWritable("target", file); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	cfg.Paths.SourceDir = filepath.Join(testsupport.BaseDir(cfg), "missing")
	failed := Failed(RunAll(cfg))
	if len(failed) != 1 || failed[0].Name != "Source folder" {
		t.Fatalf("expected source failure, got %+v", failed)
	}
}

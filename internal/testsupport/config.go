package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"promptalbum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The source directory is created; the target is left for the workflow.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.TargetDir = filepath.Join(base, "albums")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Scan.Workers = 2
	cfgVal.Logging.RetentionDays = 0

	if err := os.MkdirAll(cfgVal.Paths.SourceDir, 0o755); err != nil {
		t.Fatalf("mkdir source dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode sets the organize mode ("copy" or "move").
func WithMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.Mode = mode
	}
}

// WithoutDocs disables README, summary, and gallery output.
func WithoutDocs() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.WriteDocs = false
		b.cfg.Organize.Gallery = false
	}
}

// WithoutEXIF disables EXIF decoding so tests rely on file timestamps.
func WithoutEXIF() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.ReadEXIF = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"promptalbum/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.SourceDir != filepath.Join(tempHome, "Pictures") {
		t.Fatalf("unexpected source dir: %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.TargetDir != filepath.Join(tempHome, "Pictures", "Albums") {
		t.Fatalf("unexpected target dir: %q", cfg.Paths.TargetDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "promptalbum", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Organize.Mode != config.ModeCopy {
		t.Fatalf("expected copy mode by default, got %q", cfg.Organize.Mode)
	}
	if !cfg.CopyMode() {
		t.Fatal("expected CopyMode to be true by default")
	}
	if cfg.JournalPath() != filepath.Join(cfg.Paths.StateDir, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if _, ok := cfg.ExtensionSet()[".jpg"]; !ok {
		t.Fatalf("expected .jpg in default extensions, got %v", cfg.Scan.Extensions)
	}
}

func TestLoadCustomConfigTOML(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := config.Default()
	payload.Paths.SourceDir = "~/inbox"
	payload.Paths.TargetDir = "~/albums"
	payload.Scan.Extensions = []string{"JPG", ".png", ".jpg", " "}
	payload.Scan.Workers = 2
	payload.Organize.Mode = " MOVE "
	payload.Logging.Format = "JSON"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.SourceDir != filepath.Join(tempHome, "inbox") {
		t.Fatalf("unexpected source dir: %q", cfg.Paths.SourceDir)
	}
	if cfg.Organize.Mode != config.ModeMove || cfg.CopyMode() {
		t.Fatalf("expected move mode, got %q", cfg.Organize.Mode)
	}
	if got := strings.Join(cfg.Scan.Extensions, ","); got != ".jpg,.png" {
		t.Fatalf("unexpected normalized extensions: %q", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadCustomConfigYAML(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := `source_dir: ignored
paths:
  source_dir: ~/camera
  target_dir: ~/sorted
organize:
  mode: copy
  thumbnail_size: 120
parser:
  stop_words: [the, my]
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected yaml config to exist")
	}
	if cfg.Paths.TargetDir != filepath.Join(tempHome, "sorted") {
		t.Fatalf("unexpected target dir: %q", cfg.Paths.TargetDir)
	}
	if cfg.Organize.ThumbnailSize != 120 {
		t.Fatalf("unexpected thumbnail size: %d", cfg.Organize.ThumbnailSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	vocab := cfg.Vocabulary()
	if strings.Join(vocab.StopWords, ",") != "the,my" {
		t.Fatalf("unexpected stop words: %v", vocab.StopWords)
	}
	if len(vocab.StopPhrases) == 0 {
		t.Fatal("expected default stop phrases to survive partial yaml")
	}
}

func TestLoadEmptyYAMLUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(configPath, nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Scan.Workers != config.Default().Scan.Workers {
		t.Fatalf("expected default workers, got %d", cfg.Scan.Workers)
	}
}

func TestEnvironmentOverridesDirectories(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	source := t.TempDir()
	target := t.TempDir()
	t.Setenv("PROMPTALBUM_SOURCE_DIR", source)
	t.Setenv("PROMPTALBUM_TARGET_DIR", target)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.SourceDir != source || cfg.Paths.TargetDir != target {
		t.Fatalf("env overrides not applied: %+v", cfg.Paths)
	}
	if err := cfg.CheckSource(); err != nil {
		t.Fatalf("CheckSource: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty source", func(c *config.Config) { c.Paths.SourceDir = "" }, "paths.source_dir"},
		{"empty target", func(c *config.Config) { c.Paths.TargetDir = " " }, "paths.target_dir"},
		{"same dirs", func(c *config.Config) { c.Paths.TargetDir = c.Paths.SourceDir }, "must differ"},
		{"zero workers", func(c *config.Config) { c.Scan.Workers = 0 }, "scan.workers"},
		{"bad mode", func(c *config.Config) { c.Organize.Mode = "link" }, "organize.mode"},
		{"zero thumbs", func(c *config.Config) { c.Organize.ThumbnailSize = 0 }, "thumbnail_size"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative retention", func(c *config.Config) { c.Logging.RetentionDays = -1 }, "retention_days"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.SourceDir = "/photos/in"
			cfg.Paths.TargetDir = "/photos/out"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCheckSourceMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(t.TempDir(), "nope")
	err := cfg.CheckSource()
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing source error, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Organize.Mode != config.ModeCopy {
		t.Fatalf("unexpected sample mode: %q", cfg.Organize.Mode)
	}
}

func TestEnsureDirectoriesCreatesLogAndState(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

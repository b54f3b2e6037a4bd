package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"promptalbum/internal/prompt"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir string `toml:"source_dir" yaml:"source_dir"`
	TargetDir string `toml:"target_dir" yaml:"target_dir"`
	LogDir    string `toml:"log_dir" yaml:"log_dir"`
	StateDir  string `toml:"state_dir" yaml:"state_dir"`
}

// Scan contains configuration for the photo scanner.
type Scan struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Workers    int      `toml:"workers" yaml:"workers"`
	ReadEXIF   bool     `toml:"read_exif" yaml:"read_exif"`
}

// Organize contains configuration for album placement and documentation.
type Organize struct {
	// Mode is "copy" (originals stay in place) or "move".
	Mode               string `toml:"mode" yaml:"mode"`
	PreserveTimestamps bool   `toml:"preserve_timestamps" yaml:"preserve_timestamps"`
	WriteDocs          bool   `toml:"write_docs" yaml:"write_docs"`
	Gallery            bool   `toml:"gallery" yaml:"gallery"`
	ThumbnailSize      int    `toml:"thumbnail_size" yaml:"thumbnail_size"`
}

// Parser contains the prompt vocabulary.
type Parser struct {
	StopPhrases    []string `toml:"stop_phrases" yaml:"stop_phrases"`
	StopWords      []string `toml:"stop_words" yaml:"stop_words"`
	DateConnectors []string `toml:"date_connectors" yaml:"date_connectors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format" yaml:"format"`
	Level         string `toml:"level" yaml:"level"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// Config encapsulates all configuration values for promptalbum.
type Config struct {
	Paths    Paths    `toml:"paths" yaml:"paths"`
	Scan     Scan     `toml:"scan" yaml:"scan"`
	Organize Organize `toml:"organize" yaml:"organize"`
	Parser   Parser   `toml:"parser" yaml:"parser"`
	Logging  Logging  `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/promptalbum/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

// projectConfigNames are looked up in the working directory when neither
// --config nor the per-user file is present.
var projectConfigNames = []string{"promptalbum.toml", "promptalbum.yaml", "promptalbum.yml"}

// resolveConfigPath picks the file Load reads. An explicit path wins even
// when it does not exist yet; otherwise the per-user file, then a project
// file. The bool reports whether the chosen file exists.
func resolveConfigPath(explicit string) (string, bool, error) {
	if explicit != "" {
		path, err := expandPath(explicit)
		if err != nil {
			return "", false, err
		}
		exists, err := isRegularFile(path)
		return path, exists, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	candidates := []string{userPath}
	for _, name := range projectConfigNames {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", false, err
		}
		candidates = append(candidates, abs)
	}
	for _, candidate := range candidates {
		if ok, _ := isRegularFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the directories the workflow writes to. The
// source directory is never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CheckSource verifies the source directory exists and is a directory.
func (c *Config) CheckSource() error {
	info, err := os.Stat(c.Paths.SourceDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("source folder does not exist: %s", c.Paths.SourceDir)
		}
		return fmt.Errorf("stat source folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source folder is not a directory: %s", c.Paths.SourceDir)
	}
	return nil
}

// JournalPath returns the SQLite run journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// CopyMode reports whether photos are copied rather than moved.
func (c *Config) CopyMode() bool {
	return c.Organize.Mode != ModeMove
}

// Vocabulary returns the configured parser word lists.
func (c *Config) Vocabulary() prompt.Vocabulary {
	return prompt.Vocabulary{
		StopPhrases:    append([]string(nil), c.Parser.StopPhrases...),
		StopWords:      append([]string(nil), c.Parser.StopWords...),
		DateConnectors: append([]string(nil), c.Parser.DateConnectors...),
	}
}

// ExtensionSet returns the configured extensions as a lookup set.
func (c *Config) ExtensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		set[ext] = struct{}{}
	}
	return set
}

// expandPath resolves a leading "~" to the home directory and returns a
// clean absolute path. Empty input stays empty.
func expandPath(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if raw == "~" || strings.HasPrefix(raw, "~/") || strings.HasPrefix(raw, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		raw = filepath.Join(home, raw[1:])
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", raw, err)
	}
	return abs, nil
}

// ExpandPath applies the same "~" and absolute-path rules used for config
// values.
func ExpandPath(raw string) (string, error) {
	return expandPath(raw)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		return errors.New("paths.target_dir must be set")
	}
	if filepath.Clean(c.Paths.SourceDir) == filepath.Clean(c.Paths.TargetDir) {
		return errors.New("paths.target_dir must differ from paths.source_dir")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Workers <= 0 {
		return errors.New("scan.workers must be positive")
	}
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	switch c.Organize.Mode {
	case ModeCopy, ModeMove:
	default:
		return fmt.Errorf("organize.mode: unsupported value %q (want %q or %q)", c.Organize.Mode, ModeCopy, ModeMove)
	}
	if c.Organize.ThumbnailSize <= 0 {
		return errors.New("organize.thumbnail_size must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}

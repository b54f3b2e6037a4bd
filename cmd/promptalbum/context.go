package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"promptalbum/internal/album"
	"promptalbum/internal/config"
	"promptalbum/internal/journal"
	"promptalbum/internal/logging"
	"promptalbum/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.flagPath())
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// consoleLogger logs to the command's stderr only. Preview commands use it
// so they leave no run log behind.
func (c *commandContext) consoleLogger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Writers: []io.Writer{cmd.ErrOrStderr()},
	})
}

// runSession opens the per-run log file and prunes expired ones.
func (c *commandContext) runSession(cmd *cobra.Command, started time.Time) (*logging.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	session, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr(), started)
	if err != nil {
		return nil, err
	}
	logging.PruneRunLogs(session.Logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, session.Path)
	return session, nil
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// dateOverride turns --year/--month into a filter. A year alone covers the
// whole year; a month needs a year.
func dateOverride(year, month int) (*album.DateFilter, error) {
	switch {
	case year == 0 && month == 0:
		return nil, nil
	case year == 0:
		return nil, services.Wrap(services.ErrValidation, "cli", "date", "--month requires --year", nil)
	case month == 0:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		filter, err := album.RangeFilter(start, start.AddDate(1, 0, -1))
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "cli", "date", "", err)
		}
		return &filter, nil
	default:
		filter, err := album.MonthFilter(year, time.Month(month))
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "cli", "date", "", err)
		}
		return &filter, nil
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"reprise/internal/config"
	"reprise/internal/history"
	"reprise/internal/lastfm"
	"reprise/internal/library"
	"reprise/internal/logging"
	"reprise/internal/storage"
	"reprise/internal/throttle"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// stores bundles the database handles a subcommand works against.
type stores struct {
	cfg     *config.Config
	db      *storage.DB
	library *library.Store
	history *history.Store
}

// withStores opens the database for the duration of fn and closes it on
// return.
func (c *commandContext) withStores(fn func(st stores) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lib := library.NewStore(db)
	return fn(stores{
		cfg:     cfg,
		db:      db,
		library: lib,
		history: history.NewStore(db, lib),
	})
}

// buildService wires the throttle window, web service client, and
// history-gated service the daemon and refresh commands share.
func buildService(cfg *config.Config, hist *history.Store, logger *slog.Logger) (*lastfm.Service, error) {
	limiter := throttle.NewWindow(
		cfg.Throttle.MaxCalls,
		time.Duration(cfg.Throttle.WindowSeconds)*time.Second,
	)
	client, err := lastfm.NewClient(lastfm.ConfigFrom(cfg), limiter)
	if err != nil {
		return nil, fmt.Errorf("build web service client: %w", err)
	}
	return lastfm.NewService(client, hist, logger), nil
}

// fileLogger returns a logger writing only to the log file so one-shot
// command output stays clean on the terminal.
func fileLogger(cfg *config.Config) *slog.Logger {
	if cfg == nil || strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "reprise.log")},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

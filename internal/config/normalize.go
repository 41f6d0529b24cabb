package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLastfm()
	c.normalizeRefresh()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLastfm() {
	c.Lastfm.APIKey = strings.TrimSpace(c.Lastfm.APIKey)
	if c.Lastfm.APIKey == "" {
		if value, ok := os.LookupEnv("LASTFM_API_KEY"); ok {
			c.Lastfm.APIKey = strings.TrimSpace(value)
		}
	}
	c.Lastfm.BaseURL = strings.TrimSpace(c.Lastfm.BaseURL)
	if c.Lastfm.BaseURL == "" {
		c.Lastfm.BaseURL = defaultBaseURL
	}
}

func (c *Config) normalizeRefresh() {
	if len(c.Refresh.Jobs) == 0 {
		c.Refresh.Jobs = defaultJobs()
		return
	}
	jobs := make([]string, 0, len(c.Refresh.Jobs))
	seen := make(map[string]struct{}, len(c.Refresh.Jobs))
	for _, job := range c.Refresh.Jobs {
		trimmed := strings.TrimSpace(job)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		jobs = append(jobs, trimmed)
	}
	if len(jobs) == 0 {
		jobs = defaultJobs()
	}
	c.Refresh.Jobs = jobs
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

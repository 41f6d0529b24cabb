// Package testsupport provides shared fixtures for reprise tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"reprise/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Retry delays are zeroed so accidental sleeps cannot stall the test run.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Lastfm.APIKey = "test"
	cfg.Lastfm.RetryDelaySeconds = 0
	cfg.Lastfm.RequestTimeoutSeconds = 5

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIKey sets the web-service API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Lastfm.APIKey = key
	}
}

// WithBaseURL points the web-service client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Lastfm.BaseURL = url
	}
}

// WithCallAttempts overrides the executor attempt bound.
func WithCallAttempts(attempts int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Lastfm.CallAttempts = attempts
	}
}

// WithThrottle overrides the outbound rate bound.
func WithThrottle(maxCalls, windowSeconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Throttle.MaxCalls = maxCalls
		cfg.Throttle.WindowSeconds = windowSeconds
	}
}

// WithJobs overrides the refresh job list.
func WithJobs(jobs ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Refresh.Jobs = jobs
	}
}

// WithWorkers overrides refresh worker concurrency.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Refresh.Workers = workers
	}
}

// WithChartPages overrides the number of chart pages kept fresh.
func WithChartPages(pages int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Refresh.ChartPages = pages
	}
}

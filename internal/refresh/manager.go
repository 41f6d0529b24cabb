// Package refresh drives periodic re-invocation of stale metadata. A
// Manager polls on a fixed interval; each pass asks the history scheduler
// which artists are due per configured job and pushes one gated invocation
// per artist through a bounded worker pool.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reprise/internal/config"
	"reprise/internal/invocation"
	"reprise/internal/lastfm"
	"reprise/internal/library"
	"reprise/internal/logging"
)

// Executor is the orchestrated call surface the manager drives.
type Executor interface {
	ExecuteLogged(ctx context.Context, inv invocation.Invocation) (lastfm.Response, error)
}

// Scheduler yields the artists owed a refresh for a call type.
type Scheduler interface {
	ArtistsDueForRefresh(ctx context.Context, callType invocation.CallType) ([]library.Artist, error)
}

// Manager coordinates background refresh passes.
type Manager struct {
	executor   Executor
	scheduler  Scheduler
	logger     *slog.Logger
	interval   time.Duration
	workers    int
	artistJobs []invocation.CallType
	chartPages int

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastRun  time.Time
	lastPass Summary
	hasRun   bool
}

// NewManager builds a manager from the refresh configuration. Jobs must be
// artist-scheduled call types or the chart job; anything else has no
// schedule to draw targets from.
func NewManager(cfg *config.Config, executor Executor, scheduler Scheduler, logger *slog.Logger) (*Manager, error) {
	m := &Manager{
		executor:  executor,
		scheduler: scheduler,
		logger:    logging.NewComponentLogger(logger, "refresh"),
		interval:  time.Duration(cfg.Refresh.IntervalSeconds) * time.Second,
		workers:   cfg.Refresh.Workers,
	}
	if m.workers <= 0 {
		m.workers = 1
	}
	for _, job := range cfg.Refresh.Jobs {
		callType, ok := invocation.ParseCallType(job)
		if !ok {
			return nil, fmt.Errorf("refresh: unknown job %q", job)
		}
		switch callType {
		case invocation.ChartGetTopArtists:
			m.chartPages = cfg.Refresh.ChartPages
		case invocation.ArtistGetInfo, invocation.ArtistGetSimilar, invocation.ArtistGetTopTracks:
			m.artistJobs = append(m.artistJobs, callType)
		default:
			return nil, fmt.Errorf("refresh: job %q has no artist schedule", job)
		}
	}
	return m, nil
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("refresh already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for the loop to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	for {
		summary, err := m.RunOnce(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			m.logger.Error("refresh pass failed", logging.Error(err))
		default:
			m.logger.Info("refresh pass complete",
				logging.Int("due", summary.Due),
				logging.Int("refreshed", summary.Refreshed),
				logging.Int("denied", summary.Denied),
				logging.Int("failed", summary.Failed),
				logging.Int("skipped", summary.Skipped),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		}
	}
}

// LastPass reports the most recent completed pass.
func (m *Manager) LastPass() (Summary, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPass, m.lastRun, m.hasRun
}

func (m *Manager) recordPass(summary Summary) {
	m.mu.Lock()
	m.lastPass = summary
	m.lastRun = time.Now()
	m.hasRun = true
	m.mu.Unlock()
}

package refresh

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"reprise/internal/invocation"
	"reprise/internal/library"
	"reprise/internal/logging"
)

// Summary tallies one refresh pass. Skipped covers targets the pass never
// reached, usually because it was cancelled mid-flight.
type Summary struct {
	Due       int
	Refreshed int
	Denied    int
	Failed    int
	Skipped   int
}

func (s *Summary) add(other Summary) {
	s.Due += other.Due
	s.Refreshed += other.Refreshed
	s.Denied += other.Denied
	s.Failed += other.Failed
	s.Skipped += other.Skipped
}

type outcome int

const (
	outcomeRefreshed outcome = iota
	outcomeDenied
	outcomeFailed
	outcomeSkipped
)

// RunOnce performs a single refresh pass over every configured job.
func (m *Manager) RunOnce(ctx context.Context) (Summary, error) {
	var summary Summary
	for _, callType := range m.artistJobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		jobSummary, err := m.runArtistJob(ctx, callType)
		summary.add(jobSummary)
		if err != nil {
			return summary, err
		}
	}
	if m.chartPages > 0 {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.add(m.runChartJob(ctx))
	}
	m.recordPass(summary)
	return summary, nil
}

// runArtistJob refreshes every artist the scheduler reports due for the
// call type, fanning the invocations out over the worker pool.
func (m *Manager) runArtistJob(ctx context.Context, callType invocation.CallType) (Summary, error) {
	ctx = logging.WithJob(ctx, callType.String())

	artists, err := m.scheduler.ArtistsDueForRefresh(ctx, callType)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Due: len(artists)}
	if len(artists) == 0 {
		return summary, nil
	}

	workers := m.workers
	if workers > len(artists) {
		workers = len(artists)
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan library.Artist)
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for artist := range jobs {
				result := m.refreshArtist(ctx, callType, artist)
				mu.Lock()
				switch result {
				case outcomeRefreshed:
					summary.Refreshed++
				case outcomeDenied:
					summary.Denied++
				case outcomeFailed:
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, artist := range artists {
		select {
		case jobs <- artist:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	// Whatever the workers never resolved was skipped.
	summary.Skipped = summary.Due - summary.Refreshed - summary.Denied - summary.Failed
	return summary, nil
}

func (m *Manager) refreshArtist(ctx context.Context, callType invocation.CallType, artist library.Artist) outcome {
	callCtx := logging.WithCorrelationID(ctx, uuid.NewString())
	logger := logging.WithContext(callCtx, m.logger)

	inv := invocation.New(callType, invocation.ArtistTarget(artist.Name))
	resp, err := m.executor.ExecuteLogged(callCtx, inv)
	switch {
	case err != nil:
		if callCtx.Err() != nil {
			return outcomeSkipped
		}
		logger.Error("refresh invocation failed",
			logging.String(logging.FieldCallType, callType.String()),
			logging.String(logging.FieldArtist, artist.Name),
			logging.Error(err),
		)
		return outcomeFailed
	case resp.Denied:
		return outcomeDenied
	case resp.OK:
		logger.Debug("refreshed",
			logging.String(logging.FieldCallType, callType.String()),
			logging.String(logging.FieldArtist, artist.Name),
		)
		return outcomeRefreshed
	default:
		return outcomeFailed
	}
}

// runChartJob keeps the configured number of top-artist chart pages fresh.
// Pages still inside their cache lifetime come back as gate denials.
func (m *Manager) runChartJob(ctx context.Context) Summary {
	ctx = logging.WithJob(ctx, invocation.ChartGetTopArtists.String())

	summary := Summary{Due: m.chartPages}
	for page := 1; page <= m.chartPages; page++ {
		if ctx.Err() != nil {
			summary.Skipped = summary.Due - summary.Refreshed - summary.Denied - summary.Failed
			return summary
		}

		callCtx := logging.WithCorrelationID(ctx, uuid.NewString())
		inv := invocation.New(invocation.ChartGetTopArtists, invocation.PageTarget(page))
		resp, err := m.executor.ExecuteLogged(callCtx, inv)
		switch {
		case err != nil:
			if callCtx.Err() != nil {
				summary.Skipped = summary.Due - summary.Refreshed - summary.Denied - summary.Failed
				return summary
			}
			logging.WithContext(callCtx, m.logger).Error("chart refresh failed",
				logging.Int(logging.FieldPage, page),
				logging.Error(err),
			)
			summary.Failed++
		case resp.Denied:
			summary.Denied++
		case resp.OK:
			summary.Refreshed++
		default:
			summary.Failed++
		}
	}
	return summary
}

package lastfm

import (
	"context"
	"log/slog"

	"reprise/internal/invocation"
	"reprise/internal/logging"
)

// History is the invocation-history surface the orchestrator needs.
type History interface {
	IsAllowed(ctx context.Context, inv invocation.Invocation) (bool, error)
	Record(ctx context.Context, inv invocation.Invocation) error
	Quarantine(ctx context.Context, inv invocation.Invocation) error
}

// Service orchestrates web-service calls under invocation-history control.
type Service struct {
	client  *Client
	history History
	logger  *slog.Logger
}

// NewService wires the raw client to the history store.
func NewService(client *Client, history History, logger *slog.Logger) *Service {
	return &Service{
		client:  client,
		history: history,
		logger:  logging.NewComponentLogger(logger, "lastfm"),
	}
}

// ExecuteLogged runs the invocation if the history gate allows it and
// records the outcome: success refreshes the history stamp, a permanent
// failure quarantines the combination, and an exhausted recoverable failure
// leaves history untouched so the next pass tries again.
func (s *Service) ExecuteLogged(ctx context.Context, inv invocation.Invocation) (Response, error) {
	allowed, err := s.history.IsAllowed(ctx, inv)
	if err != nil {
		return Response{}, err
	}
	if !allowed {
		s.logger.Debug("invocation denied",
			logging.String(logging.FieldCallType, inv.CallType.String()),
			logging.String(logging.FieldTarget, inv.Target.String()),
		)
		return Response{Denied: true}, nil
	}

	resp, err := s.client.Invoke(ctx, inv)
	if err != nil {
		return Response{}, err
	}

	switch {
	case resp.OK:
		if err := s.history.Record(ctx, inv); err != nil {
			return resp, err
		}
	case resp.Recoverable:
		s.logger.Warn("invocation failed, leaving due for a later pass",
			logging.String(logging.FieldCallType, inv.CallType.String()),
			logging.String(logging.FieldTarget, inv.Target.String()),
			logging.Int(logging.FieldStatusCode, resp.StatusCode),
			logging.String("message", resp.Message),
		)
	default:
		s.logger.Warn("invocation failed permanently, quarantining",
			logging.String(logging.FieldCallType, inv.CallType.String()),
			logging.String(logging.FieldTarget, inv.Target.String()),
			logging.Int(logging.FieldStatusCode, resp.StatusCode),
			logging.String("message", resp.Message),
		)
		if err := s.history.Quarantine(ctx, inv); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Execute runs the invocation without consulting or writing history. Use it
// for user-triggered lookups that should not spend the cache lifetime.
func (s *Service) Execute(ctx context.Context, inv invocation.Invocation) (Response, error) {
	return s.client.Invoke(ctx, inv)
}

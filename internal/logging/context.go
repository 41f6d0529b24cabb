package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCallType is the standardized structured logging key for web-service call types.
	FieldCallType = "call_type"
	// FieldArtist is the standardized structured logging key for artist names.
	FieldArtist = "artist"
	// FieldTarget is the standardized structured logging key for invocation targets.
	FieldTarget = "target"
	// FieldPage is the standardized structured logging key for paged call pages.
	FieldPage = "page"
	// FieldAttempt is the standardized structured logging key for executor attempt counters.
	FieldAttempt = "attempt"
	// FieldStatusCode is the standardized structured logging key for web-service status codes.
	FieldStatusCode = "status_code"
	// FieldJob is the standardized structured logging key for refresh job names.
	FieldJob = "job"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	jobKey           contextKey = "job"
)

// WithCorrelationID annotates context with a correlation identifier.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext extracts the correlation identifier if present.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(correlationIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithJob annotates context with the refresh job name.
func WithJob(ctx context.Context, job string) context.Context {
	if job == "" {
		return ctx
	}
	return context.WithValue(ctx, jobKey, job)
}

// JobFromContext returns the refresh job name if present.
func JobFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if job, ok := JobFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldJob, job))
	}
	if id, ok := CorrelationIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

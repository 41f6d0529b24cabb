package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reprise/internal/invocation"
	"reprise/internal/library"
	"reprise/internal/storage"
)

// IsAllowed reports whether the combination may be invoked now. A
// combination with no history is always allowed; otherwise strictly more
// whole days than the call type's cache lifetime must have elapsed since the
// latest recorded invocation. Quarantined combinations carry a future
// timestamp and therefore stay denied until the quarantine lapses.
func (s *Store) IsAllowed(ctx context.Context, inv invocation.Invocation) (bool, error) {
	if !inv.CallType.Valid() {
		return false, fmt.Errorf("history gate: unknown call type %d", int(inv.CallType))
	}

	last, err := s.latestInvocation(ctx, inv)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}

	return wholeDaysBetween(*last, s.now()) > inv.CallType.DaysToCache(), nil
}

func (s *Store) latestInvocation(ctx context.Context, inv invocation.Invocation) (*time.Time, error) {
	var (
		query string
		args  []any
	)

	target := inv.Target
	switch target.Kind() {
	case invocation.TargetArtist:
		query = `SELECT MAX(h.invoked_at) FROM invocation_history h
                 JOIN artists a ON a.id = h.artist_id
                 WHERE h.calltype_id = ? AND a.folded_name = ?`
		args = []any{int(inv.CallType), library.FoldName(target.Artist())}
	case invocation.TargetAlbum:
		query = `SELECT MAX(h.invoked_at) FROM invocation_history h
                 JOIN albums al ON al.id = h.album_id
                 JOIN artists a ON a.id = al.artist_id
                 WHERE h.calltype_id = ? AND a.folded_name = ? AND al.folded_name = ?`
		args = []any{int(inv.CallType), library.FoldName(target.Artist()), library.FoldName(target.Name())}
	case invocation.TargetTrack:
		query = `SELECT MAX(h.invoked_at) FROM invocation_history h
                 JOIN tracks t ON t.id = h.track_id
                 JOIN artists a ON a.id = t.artist_id
                 WHERE h.calltype_id = ? AND a.folded_name = ? AND t.folded_name = ?`
		args = []any{int(inv.CallType), library.FoldName(target.Artist()), library.FoldName(target.Name())}
	case invocation.TargetPage:
		query = `SELECT MAX(invoked_at) FROM invocation_history
                 WHERE calltype_id = ? AND page = ?`
		args = []any{int(inv.CallType), target.Page()}
	default:
		return nil, fmt.Errorf("history gate: target is empty")
	}

	var value sql.NullString
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return nil, fmt.Errorf("history gate: %w", err)
	}
	if !value.Valid || value.String == "" {
		return nil, nil
	}

	last, err := storage.ParseTime(value.String)
	if err != nil {
		return nil, fmt.Errorf("history gate: %w", err)
	}
	return &last, nil
}

// wholeDaysBetween truncates toward zero, so a future timestamp yields a
// non-positive count and the gate denies it.
func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

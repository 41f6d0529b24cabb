package history

import (
	"context"
	"fmt"
	"time"

	"reprise/internal/invocation"
	"reprise/internal/library"
	"reprise/internal/storage"
)

// Entry describes one recorded invocation for presentation.
type Entry struct {
	CallType  invocation.CallType
	Target    string
	InvokedAt time.Time
}

// Quarantined reports whether the entry timestamp lies in the future
// relative to now, the signature of a quarantine stamp.
func (e Entry) Quarantined(now time.Time) bool {
	return e.InvokedAt.After(now)
}

// CountByCallType returns the number of tracked combinations per call type.
func (s *Store) CountByCallType(ctx context.Context) (map[invocation.CallType]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT calltype_id, COUNT(1) FROM invocation_history GROUP BY calltype_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	counts := make(map[invocation.CallType]int)
	for rows.Next() {
		var (
			id    int
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("history stats: %w", err)
		}
		counts[invocation.CallType(id)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	return counts, nil
}

// ArtistHistory lists every recorded invocation touching the named artist,
// newest first: the artist's own rows plus rows for its albums and tracks.
func (s *Store) ArtistHistory(ctx context.Context, artistName string) ([]Entry, error) {
	folded := library.FoldName(artistName)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT h.calltype_id, a.name, h.invoked_at
         FROM invocation_history h
         JOIN artists a ON a.id = h.artist_id
         WHERE a.folded_name = ?
         UNION ALL
         SELECT h.calltype_id, al.name, h.invoked_at
         FROM invocation_history h
         JOIN albums al ON al.id = h.album_id
         JOIN artists a ON a.id = al.artist_id
         WHERE a.folded_name = ?
         UNION ALL
         SELECT h.calltype_id, t.name, h.invoked_at
         FROM invocation_history h
         JOIN tracks t ON t.id = h.track_id
         JOIN artists a ON a.id = t.artist_id
         WHERE a.folded_name = ?
         ORDER BY invoked_at DESC`,
		folded, folded, folded,
	)
	if err != nil {
		return nil, fmt.Errorf("artist history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id       int
			target   string
			invoked  string
			invokedT time.Time
		)
		if err := rows.Scan(&id, &target, &invoked); err != nil {
			return nil, fmt.Errorf("artist history: %w", err)
		}
		if invokedT, err = storage.ParseTime(invoked); err != nil {
			return nil, fmt.Errorf("artist history: %w", err)
		}
		entries = append(entries, Entry{
			CallType:  invocation.CallType(id),
			Target:    target,
			InvokedAt: invokedT,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("artist history: %w", err)
	}
	return entries, nil
}

package history

import (
	"context"
	"database/sql"
	"fmt"

	"reprise/internal/invocation"
	"reprise/internal/library"
)

// scheduleBuckets splits invoked artists into thirtieths by invocation age,
// so one refresh pass touches roughly a day's share of a month-long cycle.
const scheduleBuckets = 30

// ArtistsDueForRefresh returns the artists the background refresher should
// invoke the call type for next: the oldest bucket of previously invoked
// artists followed by artists never invoked for it. Only artists backing at
// least one local library file are considered.
func (s *Store) ArtistsDueForRefresh(ctx context.Context, callType invocation.CallType) ([]library.Artist, error) {
	if !callType.Valid() {
		return nil, fmt.Errorf("refresh schedule: unknown call type %d", int(callType))
	}

	oldest, err := s.oldestInvokedArtists(ctx, callType)
	if err != nil {
		return nil, err
	}
	fresh, err := s.neverInvokedArtists(ctx, callType)
	if err != nil {
		return nil, err
	}
	return append(oldest, fresh...), nil
}

func (s *Store) oldestInvokedArtists(ctx context.Context, callType invocation.CallType) ([]library.Artist, error) {
	rows, err := s.db.QueryContext(
		ctx,
		fmt.Sprintf(`SELECT a.id, a.name
         FROM (
             SELECT artist_id, invoked_at, ntile(%d) OVER (ORDER BY invoked_at) AS bucket
             FROM invocation_history
             WHERE calltype_id = ? AND artist_id <> 0
         ) ranked
         JOIN artists a ON a.id = ranked.artist_id
         WHERE ranked.bucket = 1
           AND EXISTS (
               SELECT 1 FROM tracks t
               JOIN library_files f ON f.track_id = t.id
               WHERE t.artist_id = a.id
           )
         ORDER BY ranked.invoked_at`, scheduleBuckets),
		int(callType),
	)
	if err != nil {
		return nil, fmt.Errorf("refresh schedule: %w", err)
	}
	defer rows.Close()
	return scanArtists(rows)
}

func (s *Store) neverInvokedArtists(ctx context.Context, callType invocation.CallType) ([]library.Artist, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT a.id, a.name
         FROM artists a
         JOIN tracks t ON t.artist_id = a.id
         JOIN library_files f ON f.track_id = t.id
         WHERE NOT EXISTS (
             SELECT 1 FROM invocation_history h
             WHERE h.calltype_id = ? AND h.artist_id = a.id
         )
         ORDER BY a.name`,
		int(callType),
	)
	if err != nil {
		return nil, fmt.Errorf("refresh schedule: %w", err)
	}
	defer rows.Close()
	return scanArtists(rows)
}

func scanArtists(rows *sql.Rows) ([]library.Artist, error) {
	var artists []library.Artist
	for rows.Next() {
		var artist library.Artist
		if err := rows.Scan(&artist.ID, &artist.Name); err != nil {
			return nil, fmt.Errorf("refresh schedule: %w", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("refresh schedule: %w", err)
	}
	return artists, nil
}

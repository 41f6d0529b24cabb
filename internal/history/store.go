package history

import (
	"context"
	"fmt"
	"time"

	"reprise/internal/invocation"
	"reprise/internal/library"
	"reprise/internal/storage"
)

// noPage marks the page dimension unused, keeping the unique combination
// key free of NULLs. Entity dimensions use 0 for the same purpose.
const noPage = -1

// Store manages invocation history persistence.
type Store struct {
	db      *storage.DB
	library *library.Store
	now     func() time.Time
}

// Option customizes store construction.
type Option func(*Store)

// WithClock overrides the time source. Tests use this to pin gate decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wraps the shared database handle and the library store used to
// resolve target entities.
func NewStore(db *storage.DB, lib *library.Store, opts ...Option) *Store {
	store := &Store{db: db, library: lib, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Record stamps the combination with the current time, replacing any
// previous invocation row for it.
func (s *Store) Record(ctx context.Context, inv invocation.Invocation) error {
	return s.recordAt(ctx, inv, s.now())
}

// Quarantine stamps the combination one month into the future so the gate
// denies it until then.
func (s *Store) Quarantine(ctx context.Context, inv invocation.Invocation) error {
	return s.recordAt(ctx, inv, s.now().AddDate(0, 1, 0))
}

func (s *Store) recordAt(ctx context.Context, inv invocation.Invocation, at time.Time) error {
	if !inv.CallType.Valid() {
		return fmt.Errorf("record invocation: unknown call type %d", int(inv.CallType))
	}

	artistID, albumID, trackID, page, err := s.resolveDimensions(ctx, inv.Target)
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO invocation_history (calltype_id, artist_id, album_id, track_id, page, invoked_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(calltype_id, artist_id, album_id, track_id, page)
         DO UPDATE SET invoked_at = excluded.invoked_at`,
		int(inv.CallType), artistID, albumID, trackID, page, storage.FormatTime(at),
	)
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}
	return nil
}

// resolveDimensions maps a target onto history row dimensions. Only the most
// specific entity dimension is populated: a track row does not also carry
// its artist id.
func (s *Store) resolveDimensions(ctx context.Context, target invocation.Target) (artistID, albumID, trackID int64, page int, err error) {
	page = noPage
	switch target.Kind() {
	case invocation.TargetArtist:
		artist, ensureErr := s.library.EnsureArtist(ctx, target.Artist())
		if ensureErr != nil {
			return 0, 0, 0, 0, ensureErr
		}
		artistID = artist.ID
	case invocation.TargetAlbum:
		album, ensureErr := s.library.EnsureAlbum(ctx, target.Artist(), target.Name())
		if ensureErr != nil {
			return 0, 0, 0, 0, ensureErr
		}
		albumID = album.ID
	case invocation.TargetTrack:
		track, ensureErr := s.library.EnsureTrack(ctx, target.Artist(), target.Name())
		if ensureErr != nil {
			return 0, 0, 0, 0, ensureErr
		}
		trackID = track.ID
	case invocation.TargetPage:
		page = target.Page()
	default:
		return 0, 0, 0, 0, fmt.Errorf("target is empty")
	}
	return artistID, albumID, trackID, page, nil
}

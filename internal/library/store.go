package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"reprise/internal/storage"
)

// Store manages library entity persistence.
type Store struct {
	db *storage.DB
}

// NewStore wraps the shared database handle.
func NewStore(db *storage.DB) *Store {
	return &Store{db: db}
}

// EnsureArtist returns the artist with the given name, creating it when
// absent. Matching is case-folded; the capitalization of the first writer is
// kept for display.
func (s *Store) EnsureArtist(ctx context.Context, name string) (Artist, error) {
	folded := FoldName(name)
	if folded == "" {
		return Artist{}, errors.New("artist name is empty")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO artists (name, folded_name, created_at) VALUES (?, ?, ?)
         ON CONFLICT(folded_name) DO NOTHING`,
		name, folded, storage.FormatTime(time.Now()),
	)
	if err != nil {
		return Artist{}, fmt.Errorf("ensure artist: %w", err)
	}

	var artist Artist
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM artists WHERE folded_name = ?`, folded)
	if err := row.Scan(&artist.ID, &artist.Name); err != nil {
		return Artist{}, fmt.Errorf("load artist: %w", err)
	}
	return artist, nil
}

// EnsureAlbum returns the album with the given artist and name, creating
// both when absent.
func (s *Store) EnsureAlbum(ctx context.Context, artistName, albumName string) (Album, error) {
	folded := FoldName(albumName)
	if folded == "" {
		return Album{}, errors.New("album name is empty")
	}

	artist, err := s.EnsureArtist(ctx, artistName)
	if err != nil {
		return Album{}, err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO albums (artist_id, name, folded_name, created_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(artist_id, folded_name) DO NOTHING`,
		artist.ID, albumName, folded, storage.FormatTime(time.Now()),
	)
	if err != nil {
		return Album{}, fmt.Errorf("ensure album: %w", err)
	}

	var album Album
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, artist_id, name FROM albums WHERE artist_id = ? AND folded_name = ?`,
		artist.ID, folded,
	)
	if err := row.Scan(&album.ID, &album.ArtistID, &album.Name); err != nil {
		return Album{}, fmt.Errorf("load album: %w", err)
	}
	return album, nil
}

// EnsureTrack returns the track with the given artist and name, creating
// both when absent.
func (s *Store) EnsureTrack(ctx context.Context, artistName, trackName string) (Track, error) {
	folded := FoldName(trackName)
	if folded == "" {
		return Track{}, errors.New("track name is empty")
	}

	artist, err := s.EnsureArtist(ctx, artistName)
	if err != nil {
		return Track{}, err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO tracks (artist_id, name, folded_name, created_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(artist_id, folded_name) DO NOTHING`,
		artist.ID, trackName, folded, storage.FormatTime(time.Now()),
	)
	if err != nil {
		return Track{}, fmt.Errorf("ensure track: %w", err)
	}

	var track Track
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, artist_id, name FROM tracks WHERE artist_id = ? AND folded_name = ?`,
		artist.ID, folded,
	)
	if err := row.Scan(&track.ID, &track.ArtistID, &track.Name); err != nil {
		return Track{}, fmt.Errorf("load track: %w", err)
	}
	return track, nil
}

// AddFile registers a local file backing the given track, creating the track
// and artist when absent. Re-adding a known path re-points it at the track.
func (s *Store) AddFile(ctx context.Context, artistName, trackName, path string) (File, error) {
	if path == "" {
		return File{}, errors.New("file path is empty")
	}

	track, err := s.EnsureTrack(ctx, artistName, trackName)
	if err != nil {
		return File{}, err
	}

	addedAt := time.Now()
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO library_files (track_id, path, added_at) VALUES (?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET track_id = excluded.track_id`,
		track.ID, path, storage.FormatTime(addedAt),
	)
	if err != nil {
		return File{}, fmt.Errorf("add library file: %w", err)
	}

	var file File
	var added string
	row := s.db.QueryRowContext(ctx, `SELECT id, track_id, path, added_at FROM library_files WHERE path = ?`, path)
	if err := row.Scan(&file.ID, &file.TrackID, &file.Path, &added); err != nil {
		return File{}, fmt.Errorf("load library file: %w", err)
	}
	if file.AddedAt, err = storage.ParseTime(added); err != nil {
		return File{}, err
	}
	return file, nil
}

// LookupArtist returns the artist with the given name, or nil when unknown.
func (s *Store) LookupArtist(ctx context.Context, name string) (*Artist, error) {
	var artist Artist
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM artists WHERE folded_name = ?`, FoldName(name))
	err := row.Scan(&artist.ID, &artist.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup artist: %w", err)
	}
	return &artist, nil
}

// Stats returns library row counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(1) FROM artists", &stats.Artists},
		{"SELECT COUNT(1) FROM albums", &stats.Albums},
		{"SELECT COUNT(1) FROM tracks", &stats.Tracks},
		{"SELECT COUNT(1) FROM library_files", &stats.Files},
	}
	for _, count := range counts {
		if err := s.db.QueryRowContext(ctx, count.query).Scan(count.dest); err != nil {
			return Stats{}, fmt.Errorf("library stats: %w", err)
		}
	}
	return stats, nil
}

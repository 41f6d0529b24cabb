package testsupport

import (
	"context"
	"fmt"
	"testing"

	"reprise/internal/config"
	"reprise/internal/library"
	"reprise/internal/storage"
)

// MustOpenDB opens the reprise database for tests and registers cleanup.
func MustOpenDB(t testing.TB, cfg *config.Config) *storage.DB {
	t.Helper()

	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// AddArtistWithFile seeds an artist backed by one track and one library
// file, the shape the refresh scheduler selects.
func AddArtistWithFile(t testing.TB, lib *library.Store, artist string) library.Artist {
	t.Helper()

	ctx := context.Background()
	track := fmt.Sprintf("%s Track One", artist)
	path := fmt.Sprintf("/music/%s/01 - %s.flac", artist, track)
	if _, err := lib.AddFile(ctx, artist, track, path); err != nil {
		t.Fatalf("seed artist %q: %v", artist, err)
	}

	created, err := lib.EnsureArtist(ctx, artist)
	if err != nil {
		t.Fatalf("load artist %q: %v", artist, err)
	}
	return created
}

// AddArtistWithoutFiles seeds a bare artist row with no backing files.
func AddArtistWithoutFiles(t testing.TB, lib *library.Store, artist string) library.Artist {
	t.Helper()

	created, err := lib.EnsureArtist(context.Background(), artist)
	if err != nil {
		t.Fatalf("seed artist %q: %v", artist, err)
	}
	return created
}

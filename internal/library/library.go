// Package library stores the local music entities (artists, albums, tracks
// and the files backing them) that invocation history is keyed on.
package library

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Artist is a music artist known to the local library.
type Artist struct {
	ID   int64
	Name string
}

// Album is an album by a known artist.
type Album struct {
	ID       int64
	ArtistID int64
	Name     string
}

// Track is a track by a known artist.
type Track struct {
	ID       int64
	ArtistID int64
	Name     string
}

// File is a local library file backing a track.
type File struct {
	ID      int64
	TrackID int64
	Path    string
	AddedAt time.Time
}

// Stats aggregates library row counts for status reporting.
type Stats struct {
	Artists int
	Albums  int
	Tracks  int
	Files   int
}

// FoldName returns the case-folded canonical form used to match entity names
// regardless of caller capitalization.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

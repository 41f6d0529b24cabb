package invocation

import "fmt"

// TargetKind discriminates the identity shapes a call can address.
type TargetKind int

const (
	TargetArtist TargetKind = iota + 1
	TargetAlbum
	TargetTrack
	TargetPage
)

func (k TargetKind) String() string {
	switch k {
	case TargetArtist:
		return "artist"
	case TargetAlbum:
		return "album"
	case TargetTrack:
		return "track"
	case TargetPage:
		return "page"
	default:
		return "unknown"
	}
}

// Target identifies what a single web-service call is about. Exactly one
// shape is populated: an artist, an album, a track, or a numeric page for
// paged calls that have no entity identity.
type Target struct {
	kind   TargetKind
	artist string
	name   string
	page   int
}

// ArtistTarget addresses an artist by name.
func ArtistTarget(artist string) Target {
	return Target{kind: TargetArtist, artist: artist}
}

// AlbumTarget addresses an album by artist and album name.
func AlbumTarget(artist, album string) Target {
	return Target{kind: TargetAlbum, artist: artist, name: album}
}

// TrackTarget addresses a track by artist and track name.
func TrackTarget(artist, track string) Target {
	return Target{kind: TargetTrack, artist: artist, name: track}
}

// PageTarget addresses one page of a paged, entity-less call.
func PageTarget(page int) Target {
	return Target{kind: TargetPage, page: page}
}

// Kind returns the populated shape of the target.
func (t Target) Kind() TargetKind {
	return t.kind
}

// Artist returns the artist name for artist, album and track targets.
func (t Target) Artist() string {
	return t.artist
}

// Name returns the album or track name for album and track targets.
func (t Target) Name() string {
	return t.name
}

// Page returns the page number for page targets.
func (t Target) Page() int {
	return t.page
}

func (t Target) String() string {
	switch t.kind {
	case TargetArtist:
		return fmt.Sprintf("artist %q", t.artist)
	case TargetAlbum:
		return fmt.Sprintf("album %q by %q", t.name, t.artist)
	case TargetTrack:
		return fmt.Sprintf("track %q by %q", t.name, t.artist)
	case TargetPage:
		return fmt.Sprintf("page %d", t.page)
	default:
		return "empty target"
	}
}

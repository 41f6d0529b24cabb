package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"reprise/internal/invocation"
)

// The service quotes most numbers in its JSON payloads ("playcount":
// "1234") but leaves a few bare depending on the method. looseInt and
// looseFloat accept both forms.
type looseInt int64

func (n *looseInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse integer %q: %w", s, err)
	}
	*n = looseInt(value)
	return nil
}

type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", s, err)
	}
	*f = looseFloat(value)
	return nil
}

// ArtistInfo is the subset of artist.getInfo that callers consume.
type ArtistInfo struct {
	Name      string
	MBID      string
	URL       string
	Listeners int64
	PlayCount int64
	Summary   string
}

// SimilarArtist is one artist.getSimilar match.
type SimilarArtist struct {
	Name  string
	MBID  string
	URL   string
	Match float64
}

// TopTrack is one artist.getTopTracks entry.
type TopTrack struct {
	Name      string
	MBID      string
	URL       string
	PlayCount int64
	Rank      int
}

// AlbumInfo is the subset of album.getInfo that callers consume.
type AlbumInfo struct {
	Name      string
	Artist    string
	MBID      string
	URL       string
	Listeners int64
	PlayCount int64
}

// SimilarTrack is one track.getSimilar match.
type SimilarTrack struct {
	Name   string
	Artist string
	URL    string
	Match  float64
}

// ChartArtist is one chart.getTopArtists entry.
type ChartArtist struct {
	Name      string
	MBID      string
	URL       string
	Listeners int64
	PlayCount int64
}

// ChartPage is one page of the overall top-artist chart.
type ChartPage struct {
	Page       int
	TotalPages int
	Artists    []ChartArtist
}

// ArtistInfo fetches artist metadata under history control.
func (s *Service) ArtistInfo(ctx context.Context, artist string) (*ArtistInfo, error) {
	body, err := s.loggedBody(ctx, invocation.New(invocation.ArtistGetInfo, invocation.ArtistTarget(artist)))
	if err != nil {
		return nil, err
	}
	var payload struct {
		Artist struct {
			Name  string `json:"name"`
			MBID  string `json:"mbid"`
			URL   string `json:"url"`
			Stats struct {
				Listeners looseInt `json:"listeners"`
				PlayCount looseInt `json:"playcount"`
			} `json:"stats"`
			Bio struct {
				Summary string `json:"summary"`
			} `json:"bio"`
		} `json:"artist"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode artist info: %w", err)
	}
	return &ArtistInfo{
		Name:      payload.Artist.Name,
		MBID:      payload.Artist.MBID,
		URL:       payload.Artist.URL,
		Listeners: int64(payload.Artist.Stats.Listeners),
		PlayCount: int64(payload.Artist.Stats.PlayCount),
		Summary:   payload.Artist.Bio.Summary,
	}, nil
}

// SimilarArtists fetches artists similar to the named one.
func (s *Service) SimilarArtists(ctx context.Context, artist string) ([]SimilarArtist, error) {
	body, err := s.loggedBody(ctx, invocation.New(invocation.ArtistGetSimilar, invocation.ArtistTarget(artist)))
	if err != nil {
		return nil, err
	}
	var payload struct {
		SimilarArtists struct {
			Artist []struct {
				Name  string     `json:"name"`
				MBID  string     `json:"mbid"`
				URL   string     `json:"url"`
				Match looseFloat `json:"match"`
			} `json:"artist"`
		} `json:"similarartists"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode similar artists: %w", err)
	}
	matches := make([]SimilarArtist, 0, len(payload.SimilarArtists.Artist))
	for _, entry := range payload.SimilarArtists.Artist {
		matches = append(matches, SimilarArtist{
			Name:  entry.Name,
			MBID:  entry.MBID,
			URL:   entry.URL,
			Match: float64(entry.Match),
		})
	}
	return matches, nil
}

// ArtistTopTracks fetches the artist's most played tracks.
func (s *Service) ArtistTopTracks(ctx context.Context, artist string) ([]TopTrack, error) {
	body, err := s.loggedBody(ctx, invocation.New(invocation.ArtistGetTopTracks, invocation.ArtistTarget(artist)))
	if err != nil {
		return nil, err
	}
	var payload struct {
		TopTracks struct {
			Track []struct {
				Name      string   `json:"name"`
				MBID      string   `json:"mbid"`
				URL       string   `json:"url"`
				PlayCount looseInt `json:"playcount"`
				Attr      struct {
					Rank looseInt `json:"rank"`
				} `json:"@attr"`
			} `json:"track"`
		} `json:"toptracks"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode top tracks: %w", err)
	}
	tracks := make([]TopTrack, 0, len(payload.TopTracks.Track))
	for _, entry := range payload.TopTracks.Track {
		tracks = append(tracks, TopTrack{
			Name:      entry.Name,
			MBID:      entry.MBID,
			URL:       entry.URL,
			PlayCount: int64(entry.PlayCount),
			Rank:      int(entry.Attr.Rank),
		})
	}
	return tracks, nil
}

// AlbumInfo fetches album metadata under history control.
func (s *Service) AlbumInfo(ctx context.Context, artist, album string) (*AlbumInfo, error) {
	body, err := s.loggedBody(ctx, invocation.New(invocation.AlbumGetInfo, invocation.AlbumTarget(artist, album)))
	if err != nil {
		return nil, err
	}
	var payload struct {
		Album struct {
			Name      string   `json:"name"`
			Artist    string   `json:"artist"`
			MBID      string   `json:"mbid"`
			URL       string   `json:"url"`
			Listeners looseInt `json:"listeners"`
			PlayCount looseInt `json:"playcount"`
		} `json:"album"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode album info: %w", err)
	}
	return &AlbumInfo{
		Name:      payload.Album.Name,
		Artist:    payload.Album.Artist,
		MBID:      payload.Album.MBID,
		URL:       payload.Album.URL,
		Listeners: int64(payload.Album.Listeners),
		PlayCount: int64(payload.Album.PlayCount),
	}, nil
}

// SimilarTracks fetches tracks similar to the named one.
func (s *Service) SimilarTracks(ctx context.Context, artist, track string) ([]SimilarTrack, error) {
	body, err := s.loggedBody(ctx, invocation.New(invocation.TrackGetSimilar, invocation.TrackTarget(artist, track)))
	if err != nil {
		return nil, err
	}
	var payload struct {
		SimilarTracks struct {
			Track []struct {
				Name   string `json:"name"`
				URL    string `json:"url"`
				Artist struct {
					Name string `json:"name"`
				} `json:"artist"`
				Match looseFloat `json:"match"`
			} `json:"track"`
		} `json:"similartracks"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode similar tracks: %w", err)
	}
	matches := make([]SimilarTrack, 0, len(payload.SimilarTracks.Track))
	for _, entry := range payload.SimilarTracks.Track {
		matches = append(matches, SimilarTrack{
			Name:   entry.Name,
			Artist: entry.Artist.Name,
			URL:    entry.URL,
			Match:  float64(entry.Match),
		})
	}
	return matches, nil
}

// ChartTopArtists fetches one page of the overall top-artist chart.
func (s *Service) ChartTopArtists(ctx context.Context, page int) (*ChartPage, error) {
	body, err := s.loggedBody(ctx, invocation.New(invocation.ChartGetTopArtists, invocation.PageTarget(page)))
	if err != nil {
		return nil, err
	}
	var payload struct {
		Artists struct {
			Artist []struct {
				Name      string   `json:"name"`
				MBID      string   `json:"mbid"`
				URL       string   `json:"url"`
				Listeners looseInt `json:"listeners"`
				PlayCount looseInt `json:"playcount"`
			} `json:"artist"`
			Attr struct {
				Page       looseInt `json:"page"`
				TotalPages looseInt `json:"totalPages"`
			} `json:"@attr"`
		} `json:"artists"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode chart page: %w", err)
	}
	result := &ChartPage{
		Page:       int(payload.Artists.Attr.Page),
		TotalPages: int(payload.Artists.Attr.TotalPages),
	}
	for _, entry := range payload.Artists.Artist {
		result.Artists = append(result.Artists, ChartArtist{
			Name:      entry.Name,
			MBID:      entry.MBID,
			URL:       entry.URL,
			Listeners: int64(entry.Listeners),
			PlayCount: int64(entry.PlayCount),
		})
	}
	return result, nil
}

// loggedBody runs the invocation through ExecuteLogged and surfaces
// non-success outcomes as errors for the typed wrappers.
func (s *Service) loggedBody(ctx context.Context, inv invocation.Invocation) ([]byte, error) {
	resp, err := s.ExecuteLogged(ctx, inv)
	if err != nil {
		return nil, err
	}
	if resp.Denied {
		return nil, ErrDenied
	}
	if !resp.OK {
		return nil, &CallError{Resp: resp}
	}
	return resp.Body, nil
}

package lastfm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"reprise/internal/invocation"
	"reprise/internal/lastfm"
)

// methodHandler routes by the wire method parameter, mimicking the service.
func methodHandler(t *testing.T, payloads map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Query().Get("method")
		payload, ok := payloads[method]
		if !ok {
			t.Errorf("unexpected method %q", method)
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	})
}

func TestArtistInfoDecodes(t *testing.T) {
	service, _, _ := newService(t, methodHandler(t, map[string]string{
		"artist.getInfo": `{"artist":{"name":"Cher","mbid":"bfcc6d75-a6a5-4bc6-8282-47aec8531818",
			"url":"https://www.last.fm/music/Cher",
			"stats":{"listeners":"1188384","playcount":"85212591"},
			"bio":{"summary":"Cher is an American singer and actress."}}}`,
	}))

	info, err := service.ArtistInfo(context.Background(), "Cher")
	if err != nil {
		t.Fatalf("ArtistInfo: %v", err)
	}
	if info.Name != "Cher" {
		t.Fatalf("name = %q", info.Name)
	}
	if info.MBID != "bfcc6d75-a6a5-4bc6-8282-47aec8531818" {
		t.Fatalf("mbid = %q", info.MBID)
	}
	if info.Listeners != 1188384 {
		t.Fatalf("listeners = %d", info.Listeners)
	}
	if info.PlayCount != 85212591 {
		t.Fatalf("playcount = %d", info.PlayCount)
	}
	if info.Summary == "" {
		t.Fatal("expected bio summary")
	}
}

func TestSimilarArtistsDecodes(t *testing.T) {
	service, _, _ := newService(t, methodHandler(t, map[string]string{
		"artist.getSimilar": `{"similarartists":{"artist":[
			{"name":"Sonny & Cher","mbid":"3d6e4b6d","match":"1.000","url":"https://www.last.fm/music/Sonny+%26+Cher"},
			{"name":"Madonna","mbid":"","match":"0.315","url":"https://www.last.fm/music/Madonna"}]}}`,
	}))

	matches, err := service.SimilarArtists(context.Background(), "Cher")
	if err != nil {
		t.Fatalf("SimilarArtists: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Name != "Sonny & Cher" || matches[0].Match != 1.0 {
		t.Fatalf("matches[0] = %+v", matches[0])
	}
	if matches[1].Name != "Madonna" || matches[1].Match != 0.315 {
		t.Fatalf("matches[1] = %+v", matches[1])
	}
}

func TestArtistTopTracksDecodes(t *testing.T) {
	service, _, _ := newService(t, methodHandler(t, map[string]string{
		"artist.getTopTracks": `{"toptracks":{"track":[
			{"name":"Believe","mbid":"","url":"https://www.last.fm/music/Cher/_/Believe",
			 "playcount":"1685291","@attr":{"rank":"1"}},
			{"name":"Strong Enough","url":"","playcount":"744907","@attr":{"rank":"2"}}]}}`,
	}))

	tracks, err := service.ArtistTopTracks(context.Background(), "Cher")
	if err != nil {
		t.Fatalf("ArtistTopTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(tracks))
	}
	if tracks[0].Name != "Believe" || tracks[0].PlayCount != 1685291 || tracks[0].Rank != 1 {
		t.Fatalf("tracks[0] = %+v", tracks[0])
	}
	if tracks[1].Rank != 2 {
		t.Fatalf("tracks[1] = %+v", tracks[1])
	}
}

func TestAlbumInfoDecodes(t *testing.T) {
	service, _, _ := newService(t, methodHandler(t, map[string]string{
		"album.getInfo": `{"album":{"name":"Believe","artist":"Cher",
			"mbid":"61bf0388-b8a9-48f4-81d1-7eb02706dfb0",
			"url":"https://www.last.fm/music/Cher/Believe",
			"listeners":"390663","playcount":"1913387"}}`,
	}))

	album, err := service.AlbumInfo(context.Background(), "Cher", "Believe")
	if err != nil {
		t.Fatalf("AlbumInfo: %v", err)
	}
	if album.Name != "Believe" || album.Artist != "Cher" {
		t.Fatalf("album = %+v", album)
	}
	if album.Listeners != 390663 || album.PlayCount != 1913387 {
		t.Fatalf("album counts = %+v", album)
	}
}

func TestSimilarTracksDecodesBareNumbers(t *testing.T) {
	service, _, _ := newService(t, methodHandler(t, map[string]string{
		// track.getSimilar reports match as a bare number.
		"track.getSimilar": `{"similartracks":{"track":[
			{"name":"The Look","url":"","artist":{"name":"Roxette"},"match":0.97},
			{"name":"Joyride","url":"","artist":{"name":"Roxette"},"match":"0.58"}]}}`,
	}))

	matches, err := service.SimilarTracks(context.Background(), "Roxette", "Dressed for Success")
	if err != nil {
		t.Fatalf("SimilarTracks: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Artist != "Roxette" || matches[0].Match != 0.97 {
		t.Fatalf("matches[0] = %+v", matches[0])
	}
	if matches[1].Match != 0.58 {
		t.Fatalf("matches[1] = %+v", matches[1])
	}
}

func TestChartTopArtistsDecodes(t *testing.T) {
	service, _, _ := newService(t, methodHandler(t, map[string]string{
		"chart.getTopArtists": `{"artists":{"artist":[
			{"name":"Kendrick Lamar","mbid":"","url":"","listeners":"3876383","playcount":"517705768"},
			{"name":"The Weeknd","mbid":"","url":"","listeners":"4195710","playcount":"480729278"}],
			"@attr":{"page":"2","totalPages":"228"}}}`,
	}))

	page, err := service.ChartTopArtists(context.Background(), 2)
	if err != nil {
		t.Fatalf("ChartTopArtists: %v", err)
	}
	if page.Page != 2 || page.TotalPages != 228 {
		t.Fatalf("page attrs = %+v", page)
	}
	if len(page.Artists) != 2 {
		t.Fatalf("artists = %d, want 2", len(page.Artists))
	}
	if page.Artists[0].Name != "Kendrick Lamar" || page.Artists[0].Listeners != 3876383 {
		t.Fatalf("artists[0] = %+v", page.Artists[0])
	}
}

func TestWrapperReportsDenial(t *testing.T) {
	service, hist, _ := newService(t, methodHandler(t, map[string]string{
		"artist.getInfo": `{"artist":{"name":"Cher"}}`,
	}))
	ctx := context.Background()

	if err := hist.Record(ctx, invocation.New(invocation.ArtistGetInfo, invocation.ArtistTarget("Cher"))); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if _, err := service.ArtistInfo(ctx, "Cher"); !errors.Is(err, lastfm.ErrDenied) {
		t.Fatalf("ArtistInfo = %v, want ErrDenied", err)
	}
}

func TestWrapperReportsCallError(t *testing.T) {
	service, _, _ := newService(t, methodHandler(t, map[string]string{
		"artist.getInfo": `{"error":6,"message":"artist not found"}`,
	}))

	_, err := service.ArtistInfo(context.Background(), "Nobody")
	var callErr *lastfm.CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("ArtistInfo = %v, want CallError", err)
	}
	if callErr.Resp.StatusCode != 6 {
		t.Fatalf("status = %d, want 6", callErr.Resp.StatusCode)
	}
	if callErr.Resp.Recoverable {
		t.Fatal("artist not found must be permanent")
	}
}

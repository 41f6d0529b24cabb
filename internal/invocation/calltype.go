// Package invocation defines the call types and target identities used to
// key web-service invocation history.
package invocation

import "strings"

// CallType identifies one operation of the external web service. The numeric
// value is stable and persisted in invocation history rows.
type CallType int

const (
	ArtistGetInfo CallType = iota + 1
	ArtistGetSimilar
	ArtistGetTopTracks
	AlbumGetInfo
	TrackGetSimilar
	ChartGetTopArtists
)

type callTypeSpec struct {
	method      string
	daysToCache int
}

var callTypeSpecs = map[CallType]callTypeSpec{
	ArtistGetInfo:      {method: "artist.getInfo", daysToCache: 7},
	ArtistGetSimilar:   {method: "artist.getSimilar", daysToCache: 7},
	ArtistGetTopTracks: {method: "artist.getTopTracks", daysToCache: 7},
	AlbumGetInfo:       {method: "album.getInfo", daysToCache: 14},
	TrackGetSimilar:    {method: "track.getSimilar", daysToCache: 14},
	ChartGetTopArtists: {method: "chart.getTopArtists", daysToCache: 7},
}

var allCallTypes = []CallType{
	ArtistGetInfo,
	ArtistGetSimilar,
	ArtistGetTopTracks,
	AlbumGetInfo,
	TrackGetSimilar,
	ChartGetTopArtists,
}

// AllCallTypes returns the ordered list of known call types.
func AllCallTypes() []CallType {
	cp := make([]CallType, len(allCallTypes))
	copy(cp, allCallTypes)
	return cp
}

// ParseCallType converts a wire method name such as "artist.getInfo" into a
// known CallType. Matching is case-insensitive.
func ParseCallType(value string) (CallType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return 0, false
	}
	for _, ct := range allCallTypes {
		if strings.ToLower(ct.Method()) == normalized {
			return ct, true
		}
	}
	return 0, false
}

// Valid reports whether the call type is one of the known operations.
func (c CallType) Valid() bool {
	_, ok := callTypeSpecs[c]
	return ok
}

// Method returns the wire method name sent as the "method" request parameter.
func (c CallType) Method() string {
	return callTypeSpecs[c].method
}

// DaysToCache returns the number of whole days a successful invocation for
// this call type stays fresh. A new invocation is allowed only after strictly
// more days than this have elapsed.
func (c CallType) DaysToCache() int {
	return callTypeSpecs[c].daysToCache
}

func (c CallType) String() string {
	if spec, ok := callTypeSpecs[c]; ok {
		return spec.method
	}
	return "unknown"
}

// Package lastfm talks to the Last.fm-style music metadata web service.
//
// The package separates three concerns. Client performs raw calls: it
// assembles request parameters from an invocation, pushes every attempt
// through the shared throttle, retries recoverable failures a bounded
// number of times, and reports the outcome as a Response value rather than
// an error. Service layers invocation-history control on top: ExecuteLogged
// consults the history gate before calling and records the outcome
// afterwards, while Execute bypasses history entirely. The typed method
// wrappers (ArtistInfo, SimilarArtists, ...) decode successful response
// bodies into small result structs.
package lastfm

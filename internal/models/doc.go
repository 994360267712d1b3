// Package models defines the typed shapes exchanged with the radar backend and the local activity log.
//
// The package contains three groups of types:
//
// 1. Listening statistics DTOs returned by the backend
//   - [Artist], [Track] : top-N entries for a [TimeRange]
//   - [ListeningStats] : genre summaries and artist trends
//   - [NowPlaying] : current playback with progress
//
// 2. Playlist tool DTOs
//   - [PlaylistData] : an imported playlist with its tracks
//   - [PlaylistSummary] : an entry of the user's own playlists
//   - [CreatedPlaylist], [AddedTracks] : results of the two-phase copy
//
// 3. Local activity
//   - [Play] : one observed play recorded from the now-playing poll
//   - [DayActivity], [Heatmap] : per-day counts bucketed into weeks
//
// Every type decoded from the network implements [Validator]; callers validate before any state update.
package models

// Package tasks holds the request/response state behind each dashboard card.
//
// # Resources
//
// A [Resource] is a {data, loading, error} container for one endpoint. Each load is tagged with a
// sequence number and only the latest one may write the state, so a slow response to an old request
// can never overwrite a newer one. Responses that arrive after [Resource.Close], or whose context was
// cancelled, are dropped without surfacing an error.
//
// # Hooks
//
//   - [TopList] : top artists or tracks; [TopList.SetParams] fetches once per parameter change
//   - [ListeningStats] : genre summaries and trends
//   - [NowPlaying] : polled on a ticker between [NowPlaying.Start] and its stop function
//   - [PlaylistTool] : imperative import, selection and two-phase copy of playlists
//
// # Progress Reporting
//
// Multi-step playlist operations emit [ProgressUpdate] values on an optional channel.
// Updates use select with default to prevent blocking.
//
// # Activity
//
// [ActivityRecorder] records each new track seen by the poller; [BuildHeatmap] turns the per-day
// counts into a week grid.
package tasks

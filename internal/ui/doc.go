// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// Two views share one [Model]:
//  1. [DashboardView] : now playing, listening stats, top artists, top tracks and the activity heatmap
//  2. [PlaylistView] : import a playlist, pick tracks and copy them into a new playlist
//
// Cards never fetch on their own. Commands call the hooks in the tasks package and the model re-reads the
// hook's state when the command reports back, so a response that lost a race never reaches the screen.
// Now-playing updates arrive through a subscription channel while the poll runs in the background, and a
// one-second tick keeps the progress bar moving between polls.
//
// Keyboard navigation uses 1/2/3 for the time range, tab to switch views, space/a/c to edit the selection
// and n to name the new playlist, with contextual help displayed via charmbracelet/bubbles/help.
package ui

package tasks

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/models"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// fakeBackend implements every backend interface with per-method hooks and call counting.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	topArtists func(ctx context.Context, tr models.TimeRange, limit int) ([]models.Artist, error)
	topTracks  func(ctx context.Context, tr models.TimeRange, limit int) ([]models.Track, error)
	stats      func(ctx context.Context) (*models.ListeningStats, error)
	nowPlaying func(ctx context.Context) (*models.NowPlaying, error)
	fetch      func(ctx context.Context, input string) (*models.PlaylistData, error)
	mine       func(ctx context.Context) ([]models.PlaylistSummary, error)
	create     func(ctx context.Context, req models.CreatePlaylistRequest) (*models.CreatedPlaylist, error)
	add        func(ctx context.Context, id string, ids []string) (*models.AddedTracks, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) TopArtists(ctx context.Context, tr models.TimeRange, limit int) ([]models.Artist, error) {
	f.record("top_artists")
	return f.topArtists(ctx, tr, limit)
}

func (f *fakeBackend) TopTracks(ctx context.Context, tr models.TimeRange, limit int) ([]models.Track, error) {
	f.record("top_tracks")
	return f.topTracks(ctx, tr, limit)
}

func (f *fakeBackend) ListeningStats(ctx context.Context) (*models.ListeningStats, error) {
	f.record("stats")
	return f.stats(ctx)
}

func (f *fakeBackend) NowPlaying(ctx context.Context) (*models.NowPlaying, error) {
	f.record("now_playing")
	return f.nowPlaying(ctx)
}

func (f *fakeBackend) FetchPlaylist(ctx context.Context, input string) (*models.PlaylistData, error) {
	f.record("fetch")
	return f.fetch(ctx, input)
}

func (f *fakeBackend) UserPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	f.record("mine")
	return f.mine(ctx)
}

func (f *fakeBackend) CreatePlaylist(ctx context.Context, req models.CreatePlaylistRequest) (*models.CreatedPlaylist, error) {
	f.record("create")
	return f.create(ctx, req)
}

func (f *fakeBackend) AddTracks(ctx context.Context, id string, ids []string) (*models.AddedTracks, error) {
	f.record("add")
	return f.add(ctx, id, ids)
}

func samplePlaylist() *models.PlaylistData {
	return &models.PlaylistData{
		Playlist: models.PlaylistInfo{ID: "src", Name: "Source", TracksTotal: 3},
		Tracks: []models.PlaylistTrack{
			{ID: "t1", Name: "One"},
			{ID: "t2", Name: "Two"},
			{ID: "t3", Name: "Three"},
		},
	}
}

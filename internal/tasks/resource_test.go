package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
)

func TestResource(t *testing.T) {
	ctx := context.Background()

	t.Run("success sets data only", func(t *testing.T) {
		r := NewResource[int]("n", "failed", quietLogger())
		assert.True(t, r.State().Idle())

		v := 7
		s, applied := r.Load(ctx, func(context.Context) (*int, error) { return &v, nil })

		assert.True(t, applied)
		require.NotNil(t, s.Data)
		assert.Equal(t, 7, *s.Data)
		assert.Empty(t, s.Error)
		assert.False(t, s.Loading)
		assert.False(t, s.UpdatedAt.IsZero())
	})

	t.Run("error sets message only", func(t *testing.T) {
		tc := []struct {
			name string
			err  error
			want string
		}{
			{name: "network", err: errors.Join(shared.ErrNetwork, errors.New("refused")), want: "Network error"},
			{name: "backend", err: &services.APIError{Status: 500, Message: "Spotify is down"}, want: "Spotify is down"},
			{name: "other", err: errors.New("boom"), want: "failed"},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				r := NewResource[int]("n", "failed", quietLogger())
				s, _ := r.Load(ctx, func(context.Context) (*int, error) { return nil, tt.err })

				assert.Nil(t, s.Data)
				assert.Equal(t, tt.want, s.Error)
			})
		}
	})

	t.Run("loading clears data and error", func(t *testing.T) {
		r := NewResource[int]("n", "failed", quietLogger())
		v := 1
		r.Load(ctx, func(context.Context) (*int, error) { return &v, nil })

		var during State[int]
		r.Load(ctx, func(context.Context) (*int, error) {
			during = r.State()
			return &v, nil
		})

		assert.True(t, during.Loading)
		assert.Nil(t, during.Data)
		assert.Empty(t, during.Error)
	})

	t.Run("stale response is discarded", func(t *testing.T) {
		r := NewResource[string]("s", "failed", quietLogger())
		release := make(chan struct{})
		started := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		var staleApplied bool
		go func() {
			defer wg.Done()
			_, staleApplied = r.Load(ctx, func(context.Context) (*string, error) {
				close(started)
				<-release
				old := "old"
				return &old, nil
			})
		}()

		<-started
		fresh := "fresh"
		_, freshApplied := r.Load(ctx, func(context.Context) (*string, error) { return &fresh, nil })
		close(release)
		wg.Wait()

		assert.True(t, freshApplied)
		assert.False(t, staleApplied)
		require.NotNil(t, r.State().Data)
		assert.Equal(t, "fresh", *r.State().Data)
	})

	t.Run("response after close is dropped", func(t *testing.T) {
		r := NewResource[int]("n", "failed", quietLogger())
		v := 1
		s, applied := r.Load(ctx, func(context.Context) (*int, error) {
			r.Close()
			return &v, nil
		})

		assert.False(t, applied)
		assert.Nil(t, s.Data)

		calls := 0
		r.Load(ctx, func(context.Context) (*int, error) { calls++; return &v, nil })
		assert.Zero(t, calls, "closed resources do not fetch")
	})

	t.Run("cancelled response is dropped silently", func(t *testing.T) {
		r := NewResource[int]("n", "failed", quietLogger())
		cctx, cancel := context.WithCancel(ctx)
		s, applied := r.Load(cctx, func(ctx context.Context) (*int, error) {
			cancel()
			return nil, ctx.Err()
		})

		assert.False(t, applied)
		assert.Empty(t, s.Error)
		assert.False(t, s.Loading)
	})

	t.Run("subscribers see loading then result", func(t *testing.T) {
		r := NewResource[int]("n", "failed", quietLogger())
		var seen []bool
		r.Subscribe(func(s State[int]) { seen = append(seen, s.Loading) })

		v := 1
		r.Load(ctx, func(context.Context) (*int, error) { return &v, nil })
		assert.Equal(t, []bool{true, false}, seen)
	})
}

func TestTopList(t *testing.T) {
	ctx := context.Background()

	newHook := func(fb *fakeBackend) *TopList[models.Artist] {
		fb.topArtists = func(_ context.Context, tr models.TimeRange, limit int) ([]models.Artist, error) {
			return []models.Artist{{ID: string(tr), Name: string(tr)}}, nil
		}
		return NewTopArtists(fb, quietLogger())
	}

	t.Run("fetches once per change", func(t *testing.T) {
		fb := newFakeBackend()
		h := newHook(fb)

		_, fetched := h.SetParams(ctx, TopParams{TimeRange: models.ShortTerm, Limit: 10})
		assert.True(t, fetched)
		_, fetched = h.SetParams(ctx, TopParams{TimeRange: models.ShortTerm, Limit: 10})
		assert.False(t, fetched)
		assert.Equal(t, 1, fb.count("top_artists"))

		s, fetched := h.SetParams(ctx, TopParams{TimeRange: models.LongTerm, Limit: 10})
		assert.True(t, fetched)
		assert.Equal(t, 2, fb.count("top_artists"))
		require.NotNil(t, s.Data)
		assert.Equal(t, "long_term", (*s.Data)[0].ID)
	})

	t.Run("limit defaults", func(t *testing.T) {
		fb := newFakeBackend()
		h := newHook(fb)
		h.SetParams(ctx, TopParams{TimeRange: models.MediumTerm})
		assert.Equal(t, 10, h.Params().Limit)
	})

	t.Run("latest request wins when responses reorder", func(t *testing.T) {
		fb := newFakeBackend()
		release := make(chan struct{})
		started := make(chan struct{})
		fb.topTracks = func(_ context.Context, tr models.TimeRange, _ int) ([]models.Track, error) {
			if tr == models.ShortTerm {
				close(started)
				<-release
			}
			return []models.Track{{ID: string(tr), Name: "x"}}, nil
		}
		h := NewTopTracks(fb, quietLogger())

		done := make(chan struct{})
		go func() {
			defer close(done)
			h.SetParams(ctx, TopParams{TimeRange: models.ShortTerm, Limit: 5})
		}()
		<-started
		h.SetParams(ctx, TopParams{TimeRange: models.LongTerm, Limit: 5})
		close(release)
		<-done

		s := h.State()
		require.NotNil(t, s.Data)
		assert.Equal(t, "long_term", (*s.Data)[0].ID)
	})

	t.Run("refresh keeps params", func(t *testing.T) {
		fb := newFakeBackend()
		h := newHook(fb)
		h.SetParams(ctx, TopParams{TimeRange: models.LongTerm, Limit: 3})
		s := h.Refresh(ctx)

		assert.Equal(t, 2, fb.count("top_artists"))
		assert.Equal(t, "long_term", (*s.Data)[0].ID)
	})
}

func TestNowPlaying(t *testing.T) {
	t.Run("polls until stopped", func(t *testing.T) {
		fb := newFakeBackend()
		fb.nowPlaying = func(context.Context) (*models.NowPlaying, error) {
			return &models.NowPlaying{IsPlaying: true, Track: &models.NowPlayingTrack{ID: "t", Name: "T", DurationMS: 1000}}, nil
		}
		np := NewNowPlaying(fb, 10*time.Millisecond, quietLogger())

		stop := np.Start(context.Background())
		assert.Eventually(t, func() bool { return fb.count("now_playing") >= 3 }, time.Second, 5*time.Millisecond)
		stop()
		stop()

		after := fb.count("now_playing")
		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, after, fb.count("now_playing"), "no polls after stop")
		assert.Empty(t, np.State().Error)
	})

	t.Run("stop drops in-flight response", func(t *testing.T) {
		fb := newFakeBackend()
		started := make(chan struct{}, 1)
		fb.nowPlaying = func(ctx context.Context) (*models.NowPlaying, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, errors.Join(shared.ErrNetwork, ctx.Err())
		}
		np := NewNowPlaying(fb, time.Hour, quietLogger())

		stop := np.Start(context.Background())
		<-started
		stop()

		assert.Empty(t, np.State().Error)
	})

	t.Run("default interval", func(t *testing.T) {
		np := NewNowPlaying(newFakeBackend(), 0, quietLogger())
		assert.Equal(t, DefaultPollInterval, np.Interval())
	})
}

func TestListeningStatsHook(t *testing.T) {
	fb := newFakeBackend()
	fb.stats = func(context.Context) (*models.ListeningStats, error) {
		return nil, &services.APIError{Status: 500}
	}
	s := NewListeningStats(fb, quietLogger()).Refresh(context.Background())
	assert.Equal(t, services.MsgListeningStats, s.Error)
}

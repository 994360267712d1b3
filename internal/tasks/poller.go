package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/services"
)

// DefaultPollInterval is how often current playback is re-fetched.
const DefaultPollInterval = 10 * time.Second

// NowPlaying polls current playback while started.
type NowPlaying struct {
	*Resource[models.NowPlaying]
	backend  NowPlayingBackend
	interval time.Duration
	logger   *log.Logger
}

// NewNowPlaying creates the now-playing hook. An interval of zero or less uses [DefaultPollInterval].
func NewNowPlaying(b NowPlayingBackend, interval time.Duration, logger *log.Logger) *NowPlaying {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	r := NewResource[models.NowPlaying]("now_playing", services.MsgNowPlaying, logger)
	return &NowPlaying{Resource: r, backend: b, interval: interval, logger: r.logger}
}

// Interval returns the polling interval.
func (n *NowPlaying) Interval() time.Duration {
	return n.interval
}

// Refresh fetches playback once.
func (n *NowPlaying) Refresh(ctx context.Context) State[models.NowPlaying] {
	s, _ := n.Load(ctx, n.backend.NowPlaying)
	return s
}

// Progress returns the interpolated progress of the current track at now.
func (n *NowPlaying) Progress(now time.Time) int {
	s := n.State()
	if s.Data == nil {
		return 0
	}
	return s.Data.ProgressAt(now.Sub(s.UpdatedAt))
}

// Start fetches immediately and then once per interval until the returned stop function is called
// or ctx is done. Requests never overlap. stop waits for the loop to exit; a response still in flight
// is dropped.
func (n *NowPlaying) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		n.logger.Debug("polling started", "interval", n.interval)
		n.Refresh(ctx)
		for {
			select {
			case <-ctx.Done():
				n.logger.Debug("polling stopped")
				return
			case <-ticker.C:
				n.Refresh(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

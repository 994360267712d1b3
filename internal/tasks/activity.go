package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

// PlayRecorder persists observed plays.
type PlayRecorder interface {
	RecordIfNew(ctx context.Context, play *models.Play) (bool, error)
}

// ActivityRecorder turns now-playing snapshots into play records, one per track change.
type ActivityRecorder struct {
	repo   PlayRecorder
	logger *log.Logger
	now    func() time.Time

	mu   sync.Mutex
	last string
}

// NewActivityRecorder creates a recorder writing to repo.
func NewActivityRecorder(repo PlayRecorder, logger *log.Logger) *ActivityRecorder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ActivityRecorder{repo: repo, logger: shared.WithLogger(logger, "component", "activity"), now: time.Now}
}

// Attach records from every state change of np until ctx is done.
func (a *ActivityRecorder) Attach(ctx context.Context, np *NowPlaying) {
	np.Subscribe(func(s State[models.NowPlaying]) {
		if ctx.Err() != nil {
			return
		}
		a.Observe(ctx, s)
	})
}

// Observe records a play when s shows a playing track different from the last one seen.
func (a *ActivityRecorder) Observe(ctx context.Context, s State[models.NowPlaying]) {
	if s.Data == nil || !s.Data.IsPlaying || s.Data.Track == nil || s.Data.Track.ID == "" {
		return
	}
	track := s.Data.Track

	a.mu.Lock()
	defer a.mu.Unlock()
	if track.ID == a.last {
		return
	}

	play := &models.Play{
		TrackID:   track.ID,
		TrackName: track.Name,
		Artist:    models.ArtistNames(track.Artists),
		PlayedAt:  a.now(),
	}
	recorded, err := a.repo.RecordIfNew(ctx, play)
	if err != nil {
		a.logger.Warn("failed to record play", "track", track.ID, "err", err)
		return
	}
	a.last = track.ID
	if recorded {
		a.logger.Debug("play recorded", "track", track.Name)
	}
}

package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/services"
)

// TopParams parameterizes the top artists and top tracks hooks.
type TopParams struct {
	TimeRange models.TimeRange
	Limit     int
}

// DefaultTopParams matches the dashboard defaults.
var DefaultTopParams = TopParams{TimeRange: models.MediumTerm, Limit: 10}

type topFetcher[T any] func(ctx context.Context, tr models.TimeRange, limit int) ([]T, error)

// TopList re-fetches a ranked list whenever its parameters change.
type TopList[T any] struct {
	*Resource[[]T]
	fetch topFetcher[T]

	mu     sync.Mutex
	params *TopParams
}

// NewTopArtists creates the top artists hook. Nothing is fetched until SetParams.
func NewTopArtists(b StatsBackend, logger *log.Logger) *TopList[models.Artist] {
	return &TopList[models.Artist]{
		Resource: NewResource[[]models.Artist]("top_artists", services.MsgTopArtists, logger),
		fetch:    b.TopArtists,
	}
}

// NewTopTracks creates the top tracks hook. Nothing is fetched until SetParams.
func NewTopTracks(b StatsBackend, logger *log.Logger) *TopList[models.Track] {
	return &TopList[models.Track]{
		Resource: NewResource[[]models.Track]("top_tracks", services.MsgTopTracks, logger),
		fetch:    b.TopTracks,
	}
}

// Params returns the parameters of the last SetParams, or [DefaultTopParams].
func (h *TopList[T]) Params() TopParams {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.params == nil {
		return DefaultTopParams
	}
	return *h.params
}

// SetParams fetches once if p differs from the current parameters and reports whether it did.
func (h *TopList[T]) SetParams(ctx context.Context, p TopParams) (State[[]T], bool) {
	if p.Limit <= 0 {
		p.Limit = DefaultTopParams.Limit
	}

	h.mu.Lock()
	if h.params != nil && *h.params == p {
		h.mu.Unlock()
		return h.State(), false
	}
	h.params = &p
	h.mu.Unlock()

	s, _ := h.load(ctx, p)
	return s, true
}

// Refresh re-fetches with the current parameters.
func (h *TopList[T]) Refresh(ctx context.Context) State[[]T] {
	s, _ := h.load(ctx, h.Params())
	return s
}

func (h *TopList[T]) load(ctx context.Context, p TopParams) (State[[]T], bool) {
	return h.Load(ctx, func(ctx context.Context) (*[]T, error) {
		items, err := h.fetch(ctx, p.TimeRange, p.Limit)
		if err != nil {
			return nil, err
		}
		return &items, nil
	})
}

// ListeningStats fetches the aggregated listening statistics.
type ListeningStats struct {
	*Resource[models.ListeningStats]
	backend StatsBackend
}

// NewListeningStats creates the listening stats hook.
func NewListeningStats(b StatsBackend, logger *log.Logger) *ListeningStats {
	return &ListeningStats{
		Resource: NewResource[models.ListeningStats]("listening_stats", services.MsgListeningStats, logger),
		backend:  b,
	}
}

// Refresh fetches the stats.
func (h *ListeningStats) Refresh(ctx context.Context) State[models.ListeningStats] {
	s, _ := h.Load(ctx, h.backend.ListeningStats)
	return s
}

package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
)

// State is a snapshot of a [Resource].
//
// Once Loading is false exactly one of Data and Error is set; both are empty while loading.
type State[T any] struct {
	Data      *T
	Loading   bool
	Error     string
	UpdatedAt time.Time
}

// Idle reports a resource that has never been loaded.
func (s State[T]) Idle() bool {
	return !s.Loading && s.Data == nil && s.Error == ""
}

// Resource holds the result of the most recently started fetch.
//
// Every Load takes the next sequence number; a completion whose number is no longer the latest,
// whose context was cancelled, or which arrives after Close is dropped.
type Resource[T any] struct {
	fallback string
	logger   *log.Logger

	mu     sync.Mutex
	state  State[T]
	seq    uint64
	closed bool
	subs   []func(State[T])
}

// NewResource creates an idle resource. fallback is the message used when an error carries none.
func NewResource[T any](name, fallback string, logger *log.Logger) *Resource[T] {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resource[T]{fallback: fallback, logger: shared.WithLogger(logger, "resource", name)}
}

// State returns the current snapshot.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers fn to receive every state change. fn runs on the loading goroutine.
func (r *Resource[T]) Subscribe(fn func(State[T])) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// Load runs fetch and applies its result if it is still the latest request.
//
// It blocks until fetch returns and reports whether the result was applied.
func (r *Resource[T]) Load(ctx context.Context, fetch func(context.Context) (*T, error)) (State[T], bool) {
	r.mu.Lock()
	if r.closed {
		s := r.state
		r.mu.Unlock()
		return s, false
	}
	r.seq++
	seq := r.seq
	r.state = State[T]{Loading: true}
	r.publishLocked()

	data, err := fetch(ctx)

	r.mu.Lock()
	switch {
	case r.closed:
		r.logger.Debug("dropping response after close", "seq", seq)
		return r.unlockWith(false)
	case seq != r.seq:
		r.logger.Debug("dropping stale response", "seq", seq, "latest", r.seq)
		return r.unlockWith(false)
	case ctx.Err() != nil:
		r.logger.Debug("dropping cancelled response", "seq", seq, "err", ctx.Err())
		r.state = State[T]{}
		r.publishLocked()
		return r.State(), false
	}

	next := State[T]{UpdatedAt: time.Now()}
	switch {
	case err != nil:
		next.Error = services.ErrorMessage(err, r.fallback)
		r.logger.Warn("fetch failed", "err", err)
	case data == nil:
		next.Error = r.fallback
	default:
		next.Data = data
	}
	r.state = next
	r.publishLocked()
	return next, true
}

func (r *Resource[T]) unlockWith(applied bool) (State[T], bool) {
	s := r.state
	r.mu.Unlock()
	return s, applied
}

// Reset returns the resource to idle and invalidates any in-flight request.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	r.seq++
	r.state = State[T]{}
	r.publishLocked()
}

// Close stops the resource from accepting results. Safe to call more than once.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// publishLocked releases mu and then notifies subscribers with the state it held.
func (r *Resource[T]) publishLocked() {
	s := r.state
	subs := append([]func(State[T]){}, r.subs...)
	r.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

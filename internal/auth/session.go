package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/radar/internal/shared"
)

// Session is the single source of truth for whether the user is signed in.
//
// The token is mirrored into its [Store] so a new Session over the same store starts signed in.
type Session struct {
	mu     sync.RWMutex
	store  Store
	token  *string
	logger *log.Logger

	subsMu sync.Mutex
	subs   []func(authenticated bool)
}

// NewSession loads the stored token, if any.
func NewSession(ctx context.Context, store Store, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s := &Session{store: store, logger: shared.WithLogger(logger, "component", "session")}

	token, ok, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if ok {
		s.token = &token
	}
	s.logger.Debug("session loaded", "authenticated", ok)
	return s, nil
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}

// AccessToken returns the held token and whether there is one.
func (s *Session) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return "", false
	}
	return *s.token, true
}

// Token implements [oauth2.TokenSource]. It returns [shared.ErrNotAuthenticated] while signed out.
func (s *Session) Token() (*oauth2.Token, error) {
	token, ok := s.AccessToken()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// Login stores token and marks the session signed in. Navigation is left to the caller.
func (s *Session) Login(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return shared.ErrInvalidToken
	}

	s.mu.Lock()
	if err := s.store.Set(ctx, token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.token = &token
	s.mu.Unlock()

	s.logger.Info("signed in")
	s.notify(true)
	return nil
}

// Logout forgets the token locally. The token is not revoked with the provider.
//
// The session is signed out even when clearing the store fails; the store error is returned.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.store.Clear(ctx)
	s.token = nil
	s.mu.Unlock()

	s.logger.Info("signed out")
	s.notify(false)
	if err != nil {
		return fmt.Errorf("failed to clear stored token: %w", err)
	}
	return nil
}

// Subscribe registers fn to be called after every Login and Logout.
func (s *Session) Subscribe(fn func(authenticated bool)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Session) notify(authenticated bool) {
	s.subsMu.Lock()
	subs := append([]func(bool){}, s.subs...)
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(authenticated)
	}
}

package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/radar/internal/repositories"
	"github.com/desertthunder/radar/internal/shared"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

type failingStore struct {
	MemoryStore
	setErr, clearErr error
}

func (f *failingStore) Set(ctx context.Context, token string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(ctx, token)
}

func (f *failingStore) Clear(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.MemoryStore.Clear(ctx)
}

func sqliteStore(t *testing.T) Store {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	shared.ConfigureDatabase(db, 1, 1)
	_, err = shared.RunMigrations(db)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repositories.NewTokenRepository(db)
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": sqliteStore,
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("starts signed out on empty store", func(t *testing.T) {
				s, err := NewSession(ctx, newStore(t), quietLogger())
				require.NoError(t, err)

				assert.False(t, s.IsAuthenticated())
				_, ok := s.AccessToken()
				assert.False(t, ok)
			})

			t.Run("login survives reload", func(t *testing.T) {
				store := newStore(t)
				s, err := NewSession(ctx, store, quietLogger())
				require.NoError(t, err)
				require.NoError(t, s.Login(ctx, "abc123"))

				reloaded, err := NewSession(ctx, store, quietLogger())
				require.NoError(t, err)

				assert.True(t, reloaded.IsAuthenticated())
				token, ok := reloaded.AccessToken()
				assert.True(t, ok)
				assert.Equal(t, "abc123", token)
			})

			t.Run("logout from any state", func(t *testing.T) {
				store := newStore(t)
				s, err := NewSession(ctx, store, quietLogger())
				require.NoError(t, err)

				require.NoError(t, s.Logout(ctx))
				assert.False(t, s.IsAuthenticated())

				require.NoError(t, s.Login(ctx, "tok"))
				require.NoError(t, s.Logout(ctx))
				assert.False(t, s.IsAuthenticated())

				reloaded, err := NewSession(ctx, store, quietLogger())
				require.NoError(t, err)
				assert.False(t, reloaded.IsAuthenticated())
			})
		})
	}

	t.Run("login rejects empty token", func(t *testing.T) {
		store := NewMemoryStore()
		s, err := NewSession(ctx, store, quietLogger())
		require.NoError(t, err)

		err = s.Login(ctx, "  ")
		assert.ErrorIs(t, err, shared.ErrInvalidToken)
		assert.False(t, s.IsAuthenticated())

		_, ok, _ := store.Get(ctx)
		assert.False(t, ok, "empty token must not reach the store")
	})

	t.Run("login store failure keeps state", func(t *testing.T) {
		store := &failingStore{setErr: errors.New("disk full")}
		s, err := NewSession(ctx, store, quietLogger())
		require.NoError(t, err)

		assert.Error(t, s.Login(ctx, "tok"))
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("logout signs out even when clear fails", func(t *testing.T) {
		store := &failingStore{clearErr: errors.New("locked")}
		s, err := NewSession(ctx, store, quietLogger())
		require.NoError(t, err)
		require.NoError(t, s.Login(ctx, "tok"))

		assert.Error(t, s.Logout(ctx))
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("token source", func(t *testing.T) {
		s, err := NewSession(ctx, NewMemoryStore(), quietLogger())
		require.NoError(t, err)

		_, err = s.Token()
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

		require.NoError(t, s.Login(ctx, "tok"))
		tok, err := s.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok", tok.AccessToken)
		assert.True(t, tok.Valid())
	})

	t.Run("subscribers observe transitions", func(t *testing.T) {
		s, err := NewSession(ctx, NewMemoryStore(), quietLogger())
		require.NoError(t, err)

		var seen []bool
		s.Subscribe(func(authenticated bool) { seen = append(seen, authenticated) })

		require.NoError(t, s.Login(ctx, "tok"))
		require.NoError(t, s.Logout(ctx))
		assert.Equal(t, []bool{true, false}, seen)
	})
}

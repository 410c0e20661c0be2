package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
	"github.com/cloakboard/molt-auth/internal/auth/store/drivers/memory"
	"github.com/cloakboard/molt-auth/pkg/idx"
)

func TestHousekeepingSweepsExpiredTokens(t *testing.T) {
	t.Parallel()

	st := memory.New()
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	now := time.Now().UTC()

	expired := domain.MagicToken{
		ID:          idx.New().String(),
		Fingerprint: "fp-expired",
		Claim:       "old@example.com",
		IssuedAt:    now.Add(-time.Hour),
		ExpiresAt:   now.Add(-time.Minute),
	}
	live := domain.MagicToken{
		ID:          idx.New().String(),
		Fingerprint: "fp-live",
		Claim:       "new@example.com",
		IssuedAt:    now,
		ExpiresAt:   now.Add(time.Hour),
	}
	require.NoError(t, st.Tokens().CreateToken(ctx, expired))
	require.NoError(t, st.Tokens().CreateToken(ctx, live))

	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Minute)
	svc.sweep()

	// The expired row is gone; its fingerprint is reusable.
	require.NoError(t, st.Tokens().CreateToken(ctx, domain.MagicToken{
		ID:          idx.New().String(),
		Fingerprint: "fp-expired",
		Claim:       "old@example.com",
		IssuedAt:    now,
		ExpiresAt:   now.Add(time.Hour),
	}))

	// The live row survived.
	_, err := st.Tokens().GetActiveToken(ctx, "fp-live", now)
	require.NoError(t, err)
}

func TestHousekeepingLifecycle(t *testing.T) {
	t.Parallel()

	st := memory.New()
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, st.Tokens().CreateToken(ctx, domain.MagicToken{
		ID:          idx.New().String(),
		Fingerprint: "fp-startup",
		Claim:       "old@example.com",
		IssuedAt:    now.Add(-time.Hour),
		ExpiresAt:   now.Add(-time.Minute),
	}))

	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	svc.Start()
	svc.Stop()

	// Stop blocks until the startup sweep finished, so the expired row is
	// already gone.
	_, err := st.Tokens().ConsumeToken(ctx, "fp-startup", now.Add(-2*time.Minute))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingDefaultsInterval(t *testing.T) {
	t.Parallel()

	st := memory.New()
	t.Cleanup(func() { _ = st.Close() })

	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Minute, svc.Interval)
}

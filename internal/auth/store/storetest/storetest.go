// Package storetest is a conformance suite for store drivers. Each driver's
// tests hand Run a constructor and get the full single-use and directory
// semantics exercised against it.
package storetest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
	"github.com/cloakboard/molt-auth/pkg/idx"
)

// Run drives the conformance suite. open must return a migrated, empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()

	// Millisecond precision is the contract; drivers may not store finer.
	base := time.Now().UTC().Truncate(time.Millisecond)

	token := func(fingerprint string, expiresAt time.Time) domain.MagicToken {
		return domain.MagicToken{
			ID:          idx.New().String(),
			Fingerprint: fingerprint,
			Claim:       "alice@example.com",
			IssuedAt:    base,
			ExpiresAt:   expiresAt,
		}
	}

	t.Run("token create and peek roundtrip", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		want := token("fp-roundtrip", base.Add(time.Hour))
		require.NoError(t, s.Tokens().CreateToken(ctx, want))

		got, err := s.Tokens().GetActiveToken(ctx, "fp-roundtrip", base)
		require.NoError(t, err)
		require.Equal(t, want.ID, got.ID)
		require.Equal(t, want.Claim, got.Claim)
		require.Equal(t, want.Fingerprint, got.Fingerprint)
		require.WithinDuration(t, want.IssuedAt, got.IssuedAt, time.Millisecond)
		require.WithinDuration(t, want.ExpiresAt, got.ExpiresAt, time.Millisecond)
		require.Nil(t, got.ConsumedAt)
	})

	t.Run("token duplicate fingerprint rejected", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-dup", base.Add(time.Hour))))
		err := s.Tokens().CreateToken(ctx, token("fp-dup", base.Add(2*time.Hour)))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("token unknown fingerprint", func(t *testing.T) {
		t.Parallel()
		s := open(t)

		_, err := s.Tokens().GetActiveToken(context.Background(), "fp-nope", base)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Tokens().ConsumeToken(context.Background(), "fp-nope", base)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token expiry boundary", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		expiry := base.Add(time.Minute)
		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-boundary", expiry)))

		// Valid strictly before expiry.
		_, err := s.Tokens().GetActiveToken(ctx, "fp-boundary", expiry.Add(-time.Millisecond))
		require.NoError(t, err)

		// Invalid at the expiry instant itself.
		_, err = s.Tokens().GetActiveToken(ctx, "fp-boundary", expiry)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Tokens().GetActiveToken(ctx, "fp-boundary", expiry.Add(time.Millisecond))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token consume is single use", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-once", base.Add(time.Hour))))

		got, err := s.Tokens().ConsumeToken(ctx, "fp-once", base)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", got.Claim)
		require.NotNil(t, got.ConsumedAt)

		// A consumed token is indistinguishable from an unknown one.
		_, err = s.Tokens().ConsumeToken(ctx, "fp-once", base)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Tokens().GetActiveToken(ctx, "fp-once", base)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token consume respects expiry", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		expiry := base.Add(time.Minute)
		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-late", expiry)))

		_, err := s.Tokens().ConsumeToken(ctx, "fp-late", expiry)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token consume race has exactly one winner", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-race", base.Add(time.Hour))))

		const racers = 50
		var wins atomic.Int64
		var wg sync.WaitGroup
		wg.Add(racers)
		for range racers {
			go func() {
				defer wg.Done()
				if _, err := s.Tokens().ConsumeToken(ctx, "fp-race", base); err == nil {
					wins.Add(1)
				} else {
					require.ErrorIs(t, err, store.ErrNotFound)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int64(1), wins.Load())
	})

	t.Run("expired token sweep", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-dead", base.Add(-time.Hour))))
		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-live", base.Add(time.Hour))))

		removed, err := s.Tokens().DeleteExpiredTokens(ctx, base)
		require.NoError(t, err)
		require.Equal(t, int64(1), removed)

		// The live token survives; the dead row is physically gone, so its
		// fingerprint can be written again.
		_, err = s.Tokens().GetActiveToken(ctx, "fp-live", base)
		require.NoError(t, err)
		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-dead", base.Add(time.Hour))))
	})

	t.Run("consumed token sweeps out with its expiry", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		expiry := base.Add(time.Hour)
		require.NoError(t, s.Tokens().CreateToken(ctx, token("fp-spent", expiry)))
		_, err := s.Tokens().ConsumeToken(ctx, "fp-spent", base)
		require.NoError(t, err)

		removed, err := s.Tokens().DeleteExpiredTokens(ctx, base)
		require.NoError(t, err)
		require.Zero(t, removed)

		removed, err = s.Tokens().DeleteExpiredTokens(ctx, expiry.Add(time.Millisecond))
		require.NoError(t, err)
		require.Equal(t, int64(1), removed)
	})

	account := func(claimHash, method string) domain.Account {
		return domain.Account{
			ID:         idx.New().String(),
			ClaimHash:  claimHash,
			Method:     method,
			CreatedAt:  base,
			LastAuthAt: base,
		}
	}

	t.Run("account create and get roundtrip", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		want := account("hash-roundtrip", "email")
		require.NoError(t, s.Accounts().CreateAccount(ctx, want))

		got, err := s.Accounts().GetAccountByClaimHash(ctx, "hash-roundtrip")
		require.NoError(t, err)
		require.Equal(t, want.ID, got.ID)
		require.Equal(t, "email", got.Method)
		require.Nil(t, got.LinkedID)
		require.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("account duplicate claim rejected", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Accounts().CreateAccount(ctx, account("hash-dup", "email")))
		err := s.Accounts().CreateAccount(ctx, account("hash-dup", "wallet:ethereum"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("account unknown claim", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		_, err := s.Accounts().GetAccountByClaimHash(ctx, "hash-nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Accounts().LinkAccount(ctx, "hash-nope", "other"), store.ErrNotFound)
		require.ErrorIs(t, s.Accounts().UpdateLastAuth(ctx, "hash-nope", base), store.ErrNotFound)
	})

	t.Run("account link", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		email := account("hash-email", "email")
		wallet := account("hash-wallet", "wallet:ethereum")
		require.NoError(t, s.Accounts().CreateAccount(ctx, email))
		require.NoError(t, s.Accounts().CreateAccount(ctx, wallet))

		require.NoError(t, s.Accounts().LinkAccount(ctx, "hash-wallet", email.ID))

		got, err := s.Accounts().GetAccountByClaimHash(ctx, "hash-wallet")
		require.NoError(t, err)
		require.NotNil(t, got.LinkedID)
		require.Equal(t, email.ID, *got.LinkedID)
	})

	t.Run("account last auth bump", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Accounts().CreateAccount(ctx, account("hash-touch", "email")))

		later := base.Add(time.Hour)
		require.NoError(t, s.Accounts().UpdateLastAuth(ctx, "hash-touch", later))

		got, err := s.Accounts().GetAccountByClaimHash(ctx, "hash-touch")
		require.NoError(t, err)
		require.WithinDuration(t, later, got.LastAuthAt, time.Millisecond)
	})

	t.Run("with tx commits work", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		ctx := context.Background()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Accounts().CreateAccount(ctx, account("hash-tx", "email")); err != nil {
				return err
			}
			return tx.Accounts().UpdateLastAuth(ctx, "hash-tx", base.Add(time.Minute))
		})
		require.NoError(t, err)

		got, err := s.Accounts().GetAccountByClaimHash(ctx, "hash-tx")
		require.NoError(t, err)
		require.WithinDuration(t, base.Add(time.Minute), got.LastAuthAt, time.Millisecond)
	})

	t.Run("ping", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		require.NoError(t, s.Ping(context.Background()))
	})
}

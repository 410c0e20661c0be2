package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
)

type tokensRepo struct {
	s *Store
}

// tokenRecord is the JSON shape stored under the fingerprint key. Timestamps
// are unix milliseconds to match the precision the token lifecycle is
// compared at.
type tokenRecord struct {
	ID        string `json:"id"`
	Claim     string `json:"claim"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

func recordFromToken(t domain.MagicToken) tokenRecord {
	return tokenRecord{
		ID:        t.ID,
		Claim:     t.Claim,
		IssuedAt:  t.IssuedAt.UnixMilli(),
		ExpiresAt: t.ExpiresAt.UnixMilli(),
	}
}

func (r tokenRecord) toToken(fingerprint string) domain.MagicToken {
	return domain.MagicToken{
		ID:          r.ID,
		Fingerprint: fingerprint,
		Claim:       r.Claim,
		IssuedAt:    time.UnixMilli(r.IssuedAt).UTC(),
		ExpiresAt:   time.UnixMilli(r.ExpiresAt).UTC(),
	}
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.MagicToken) error {
	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		// Already expired; an unstored token and an expired one are
		// indistinguishable to readers.
		return nil
	}

	payload, err := json.Marshal(recordFromToken(t))
	if err != nil {
		return err
	}

	ok, err := r.s.client.SetNX(ctx, r.s.tokenKey(t.Fingerprint), payload, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *tokensRepo) GetActiveToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error) {
	raw, err := r.s.client.Get(ctx, r.s.tokenKey(fingerprint)).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.MagicToken{}, store.ErrNotFound
	}
	if err != nil {
		return domain.MagicToken{}, err
	}

	var rec tokenRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.MagicToken{}, err
	}

	tok := rec.toToken(fingerprint)
	if !tok.Active(now) {
		// TTL eviction lags the deadline by up to a tick; treat the
		// stale value as gone.
		return domain.MagicToken{}, store.ErrNotFound
	}
	return tok, nil
}

func (r *tokensRepo) ConsumeToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error) {
	// GETDEL is atomic server-side, so under concurrent consumption exactly
	// one caller receives the value and everyone else sees redis.Nil.
	raw, err := r.s.client.GetDel(ctx, r.s.tokenKey(fingerprint)).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.MagicToken{}, store.ErrNotFound
	}
	if err != nil {
		return domain.MagicToken{}, err
	}

	var rec tokenRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.MagicToken{}, err
	}

	tok := rec.toToken(fingerprint)
	if !tok.Active(now) {
		return domain.MagicToken{}, store.ErrNotFound
	}

	consumed := now
	tok.ConsumedAt = &consumed
	return tok, nil
}

// DeleteExpiredTokens is a no-op; token keys carry a TTL and redis evicts
// them on its own.
func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

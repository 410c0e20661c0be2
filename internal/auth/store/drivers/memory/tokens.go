package memory

import (
	"context"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
)

type tokensRepo struct {
	s *Store
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.MagicToken) error {
	entry := &tokenEntry{tok: t}
	if _, loaded := r.s.tokens.LoadOrStore(t.Fingerprint, entry); loaded {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *tokensRepo) GetActiveToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error) {
	v, ok := r.s.tokens.Load(fingerprint)
	if !ok {
		return domain.MagicToken{}, store.ErrNotFound
	}

	entry := v.(*tokenEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.tok.Active(now) {
		return domain.MagicToken{}, store.ErrNotFound
	}
	return entry.tok, nil
}

func (r *tokensRepo) ConsumeToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error) {
	v, ok := r.s.tokens.Load(fingerprint)
	if !ok {
		return domain.MagicToken{}, store.ErrNotFound
	}

	entry := v.(*tokenEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	// The check and the mark happen under the entry lock, so exactly one
	// racing caller sees the token active.
	if !entry.tok.Active(now) {
		return domain.MagicToken{}, store.ErrNotFound
	}

	consumedAt := now
	entry.tok.ConsumedAt = &consumedAt
	return entry.tok, nil
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	r.s.tokens.Range(func(key, value any) bool {
		entry := value.(*tokenEntry)
		entry.mu.Lock()
		expired := entry.tok.Expired(before)
		entry.mu.Unlock()

		if expired {
			r.s.tokens.Delete(key)
			removed++
		}
		return true
	})
	return removed, nil
}

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

// watchRetries bounds optimistic-lock retries when a WATCHed account key is
// written between read and commit.
const watchRetries = 5

type accountsRepo struct {
	s *Store
}

type accountRecord struct {
	ID         string  `json:"id"`
	Method     string  `json:"method"`
	LinkedID   *string `json:"linked_id,omitempty"`
	CreatedAt  int64   `json:"created_at"`
	LastAuthAt int64   `json:"last_auth_at"`
}

func recordFromAccount(a domain.Account) accountRecord {
	return accountRecord{
		ID:         a.ID,
		Method:     a.Method,
		LinkedID:   a.LinkedID,
		CreatedAt:  a.CreatedAt.UnixMilli(),
		LastAuthAt: a.LastAuthAt.UnixMilli(),
	}
}

func (r accountRecord) toAccount(claimHash string) domain.Account {
	return domain.Account{
		ID:         r.ID,
		ClaimHash:  claimHash,
		Method:     r.Method,
		LinkedID:   r.LinkedID,
		CreatedAt:  time.UnixMilli(r.CreatedAt).UTC(),
		LastAuthAt: time.UnixMilli(r.LastAuthAt).UTC(),
	}
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	payload, err := json.Marshal(recordFromAccount(a))
	if err != nil {
		return err
	}

	ok, err := r.s.client.SetNX(ctx, r.s.accountKey(a.ClaimHash), payload, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *accountsRepo) GetAccountByClaimHash(ctx context.Context, claimHash string) (domain.Account, error) {
	raw, err := r.s.client.Get(ctx, r.s.accountKey(claimHash)).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.Account{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}

	var rec accountRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Account{}, err
	}
	return rec.toAccount(claimHash), nil
}

func (r *accountsRepo) LinkAccount(ctx context.Context, claimHash string, linkedID string) error {
	return r.update(ctx, claimHash, func(rec *accountRecord) {
		rec.LinkedID = &linkedID
	})
}

func (r *accountsRepo) UpdateLastAuth(ctx context.Context, claimHash string, now time.Time) error {
	return r.update(ctx, claimHash, func(rec *accountRecord) {
		rec.LastAuthAt = now.UnixMilli()
	})
}

// update applies mutate under WATCH so a concurrent writer aborts the MULTI
// and the read-modify-write is retried against the fresh value.
func (r *accountsRepo) update(ctx context.Context, claimHash string, mutate func(*accountRecord)) error {
	key := r.s.accountKey(claimHash)

	apply := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, goredis.Nil) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		var rec accountRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return err
		}
		mutate(&rec)

		payload, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < watchRetries; i++ {
		err = r.s.client.Watch(ctx, apply, key)
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
	}
	return err
}

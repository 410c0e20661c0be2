package memory

import (
	"context"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
)

type accountsRepo struct {
	s *Store
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[a.ClaimHash]; ok {
		return store.ErrAlreadyExists
	}
	r.s.accounts[a.ClaimHash] = a
	return nil
}

func (r *accountsRepo) GetAccountByClaimHash(ctx context.Context, claimHash string) (domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[claimHash]
	if !ok {
		return domain.Account{}, store.ErrNotFound
	}
	return a, nil
}

func (r *accountsRepo) LinkAccount(ctx context.Context, claimHash, linkedID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[claimHash]
	if !ok {
		return store.ErrNotFound
	}
	a.LinkedID = &linkedID
	r.s.accounts[claimHash] = a
	return nil
}

func (r *accountsRepo) UpdateLastAuth(ctx context.Context, claimHash string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[claimHash]
	if !ok {
		return store.ErrNotFound
	}
	a.LastAuthAt = now
	r.s.accounts[claimHash] = a
	return nil
}

// Package memory is the default store driver: process-local, no external
// dependencies, suitable for single-instance deployments and tests. Horizontal
// scaling needs the redis or sqlite driver instead.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
)

type Store struct {
	tokens sync.Map // fingerprint -> *tokenEntry

	mu       sync.RWMutex
	accounts map[string]domain.Account // claim_hash -> account
}

// tokenEntry carries its own mutex so consume races resolve per key without
// a global lock.
type tokenEntry struct {
	mu  sync.Mutex
	tok domain.MagicToken
}

func New() *Store {
	return &Store{accounts: make(map[string]domain.Account)}
}

func (s *Store) Tokens() store.Tokens     { return &tokensRepo{s: s} }
func (s *Store) Accounts() store.Accounts { return &accountsRepo{s: s} }

// ApplyMigrations is a no-op; there is no schema to manage.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }

// Tx returns a pass-through transaction. Every individual operation on this
// driver is already atomic (per-entry locks and the claim-hash uniqueness
// check), so the tx exists to satisfy the interface; writes apply
// immediately and Rollback cannot undo them.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	return &txStore{s: s}, nil
}

// WithTx executes fn against the pass-through transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type txStore struct {
	s *Store
}

func (t *txStore) Tokens() store.Tokens     { return t.s.Tokens() }
func (t *txStore) Accounts() store.Accounts { return t.s.Accounts() }

func (t *txStore) Commit() error   { return nil }
func (t *txStore) Rollback() error { return nil }

func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported.
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported.
	return sql.ErrTxDone
}

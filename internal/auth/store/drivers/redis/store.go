// Package redis is the shared-cache store driver for multi-instance
// deployments. Token lifetime rides on redis TTLs, so expiry needs no
// housekeeping sweep here, and a consumed token is deleted outright rather
// than marked.
package redis

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cloakboard/molt-auth/internal/auth/store"
)

type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects using a redis URL, e.g. redis://localhost:6379/0.
func NewStore(redisURL string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &Store{
		client: goredis.NewClient(opts),
		prefix: "molt:auth:",
	}, nil
}

func (s *Store) tokenKey(fingerprint string) string { return s.prefix + "tok:" + fingerprint }
func (s *Store) accountKey(claimHash string) string { return s.prefix + "acct:" + claimHash }

func (s *Store) Tokens() store.Tokens     { return &tokensRepo{s: s} }
func (s *Store) Accounts() store.Accounts { return &accountsRepo{s: s} }

// ApplyMigrations is a no-op; redis has no schema to manage.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Tx returns a pass-through transaction. Every operation on this driver is
// a single atomic redis command (SET NX, GETDEL, WATCH/MULTI), so the tx
// exists to satisfy the interface; writes apply immediately.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	return &txStore{s: s}, nil
}

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

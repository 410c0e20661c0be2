package store

import (
	"context"
	"errors"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory, sqlite,
// redis) implement this. It exposes sub-repositories to keep concerns tidy
// and testable. We can change having the sub-repos as methods later but we do
// it now so we can have more control and actively stop people from
// accidently doing transactions within transactions.
type Store interface {
	Tokens() Tokens
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., consume
	// plus directory touch). The caller MUST call Commit() or Rollback() on
	// the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for memory).
	Close() error

	// Ping verifies the backing store is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Tokens is the single-use magic-link token repository. All reads and the
// consume operation take an explicit now so callers control the clock.
type Tokens interface {
	// CreateToken inserts a fresh token record (id is provided by app via
	// ULID). ErrAlreadyExists on a fingerprint collision.
	CreateToken(ctx context.Context, t domain.MagicToken) error

	// GetActiveToken returns the token for a fingerprint if it is neither
	// consumed nor expired at now. Unknown, expired and consumed are all
	// ErrNotFound; callers cannot tell them apart.
	GetActiveToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error)

	// ConsumeToken atomically marks the token consumed and returns it.
	// Exactly one caller succeeds per token no matter how many race; all
	// others get ErrNotFound.
	ConsumeToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error)

	// DeleteExpiredTokens removes tokens that expired before the given
	// instant and reports how many went. Consumed tokens expire out the
	// same way; their audit value ends with their lifetime.
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}

// Accounts is the privacy-preserving account directory.
type Accounts interface {
	// CreateAccount inserts a new directory row (id is ULID).
	// ErrAlreadyExists when the claim hash is already registered.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByClaimHash fetches a directory row by hashed claim.
	GetAccountByClaimHash(ctx context.Context, claimHash string) (domain.Account, error)

	// LinkAccount points the row at another account id (wallet joined onto
	// an email account). ErrNotFound when the claim hash is unknown.
	LinkAccount(ctx context.Context, claimHash, linkedID string) error

	// UpdateLastAuth bumps last_auth_at for the claim hash.
	UpdateLastAuth(ctx context.Context, claimHash string, now time.Time) error
}

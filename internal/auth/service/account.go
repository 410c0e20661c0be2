package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
	"github.com/cloakboard/molt-auth/pkg/idx"
	"github.com/cloakboard/molt-auth/pkg/keyderive"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidClaim    = errors.New("invalid claim")
)

// AccountService maintains the account directory. Rows are keyed by the hex
// SHA-256 of the identity claim, so the directory can answer "has this email
// or wallet been seen before" without ever storing the claim itself.
type AccountService struct {
	Store store.Store
}

// Register returns the account for a claim, creating it on first sight.
// Idempotent; a concurrent first-registration race resolves to whichever
// insert won.
func (s *AccountService) Register(ctx context.Context, claim, method string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	if claim == "" || method == "" {
		return domain.Account{}, ErrInvalidClaim
	}

	var acct domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		acct, err = ensureAccount(ctx, tx, claim, method)
		return err
	})
	if err != nil {
		log.Error("failed to register account", slog.Any("error", err))
		return domain.Account{}, err
	}

	return acct, nil
}

// Lookup fetches the directory entry for an already-hashed claim. Used by
// the signup-vs-login routing check, which only ever sees hashes.
func (s *AccountService) Lookup(ctx context.Context, claimHash string) (domain.Account, error) {
	if claimHash == "" {
		return domain.Account{}, ErrAccountNotFound
	}

	acct, err := s.Store.Accounts().GetAccountByClaimHash(ctx, claimHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		slogx.FromContext(ctx).Error("failed to look up account", slog.Any("error", err))
		return domain.Account{}, err
	}
	return acct, nil
}

// Link binds a second auth method's claim to the session owner's account, so
// a wallet added after a magic-link signup resolves to the same identity.
// Both directory rows are ensured first; the new claim's row points at the
// owner's account id.
func (s *AccountService) Link(ctx context.Context, ownerClaim, ownerMethod, newClaim, newMethod string) error {
	log := slogx.FromContext(ctx)

	if ownerClaim == "" || newClaim == "" || newMethod == "" {
		return ErrInvalidClaim
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		owner, err := ensureAccount(ctx, tx, ownerClaim, ownerMethod)
		if err != nil {
			return err
		}

		linked, err := ensureAccount(ctx, tx, newClaim, newMethod)
		if err != nil {
			return err
		}

		return tx.Accounts().LinkAccount(ctx, linked.ClaimHash, owner.ID)
	})
	if err != nil {
		log.Error("failed to link account", slog.Any("error", err))
		return err
	}

	log.Info("account linked", slog.String("method", newMethod))
	return nil
}

// TouchLastAuth bumps the last-auth stamp after a successful consume or
// wallet verification. Best effort; a miss or store error is logged, never
// surfaced, so bookkeeping cannot fail a login.
func (s *AccountService) TouchLastAuth(ctx context.Context, claim string) {
	claimHash := keyderive.HashClaim(claim)

	err := s.Store.Accounts().UpdateLastAuth(ctx, claimHash, time.Now().UTC())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("failed to update last auth", slog.Any("error", err))
	}
}

// ensureAccount is the shared get-or-create. Runs inside the caller's tx so
// Link's two ensures and the link write land atomically on drivers with real
// transactions.
func ensureAccount(ctx context.Context, st store.Store, claim, method string) (domain.Account, error) {
	claimHash := keyderive.HashClaim(claim)

	acct, err := st.Accounts().GetAccountByClaimHash(ctx, claimHash)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	acct = domain.Account{
		ID:         idx.New().String(),
		ClaimHash:  claimHash,
		Method:     method,
		CreatedAt:  now,
		LastAuthAt: now,
	}

	err = st.Accounts().CreateAccount(ctx, acct)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost the first-registration race; the winner's row is the account.
		return st.Accounts().GetAccountByClaimHash(ctx, claimHash)
	}
	if err != nil {
		return domain.Account{}, err
	}

	return acct, nil
}

package sqlite

import (
	"context"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store"
)

type accountsRepo struct {
	db dbtx
}

const accountColumns = `id, claim_hash, method, linked_id, created_at, last_auth_at`

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, claim_hash, method, linked_id, created_at, last_auth_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.ClaimHash, a.Method, mapOptionalString(a.LinkedID),
		toMillis(a.CreatedAt), toMillis(a.LastAuthAt),
	)
	return mapConflict(err)
}

func (r *accountsRepo) GetAccountByClaimHash(ctx context.Context, claimHash string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE claim_hash = ?`,
		claimHash,
	)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) LinkAccount(ctx context.Context, claimHash, linkedID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET linked_id = ? WHERE claim_hash = ?`,
		linkedID, claimHash,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) UpdateLastAuth(ctx context.Context, claimHash string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET last_auth_at = ? WHERE claim_hash = ?`,
		toMillis(now), claimHash,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow turns a zero-row update into ErrNotFound.
func requireRow(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

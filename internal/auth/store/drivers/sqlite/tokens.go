package sqlite

import (
	"context"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
)

type tokensRepo struct {
	db dbtx
}

const tokenColumns = `id, fingerprint, claim, issued_at, expires_at, consumed_at`

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.MagicToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO magic_tokens (id, fingerprint, claim, issued_at, expires_at, consumed_at)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		t.ID, t.Fingerprint, t.Claim, toMillis(t.IssuedAt), toMillis(t.ExpiresAt),
	)
	return mapConflict(err)
}

func (r *tokensRepo) GetActiveToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+tokenColumns+`
		FROM magic_tokens
		WHERE fingerprint = ? AND consumed_at IS NULL AND expires_at > ?`,
		fingerprint, toMillis(now),
	)
	t, err := scanToken(row)
	if err != nil {
		return domain.MagicToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) ConsumeToken(ctx context.Context, fingerprint string, now time.Time) (domain.MagicToken, error) {
	// The WHERE clause and the write happen in one statement, so under
	// concurrent consumes sqlite's write serialization leaves exactly one
	// winner; everyone else matches zero rows.
	row := r.db.QueryRowContext(ctx, `
		UPDATE magic_tokens
		SET consumed_at = ?
		WHERE fingerprint = ? AND consumed_at IS NULL AND expires_at > ?
		RETURNING `+tokenColumns,
		toMillis(now), fingerprint, toMillis(now),
	)
	t, err := scanToken(row)
	if err != nil {
		return domain.MagicToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM magic_tokens WHERE expires_at <= ?`, toMillis(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

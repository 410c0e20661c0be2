package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/store/drivers/memory"
	"github.com/cloakboard/molt-auth/pkg/keyderive"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()

	st := memory.New()
	t.Cleanup(func() { _ = st.Close() })
	return &AccountService{Store: st}
}

func TestAccountRegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := newAccountService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice@example.com", domain.MethodMagicLink)
	require.NoError(t, err)
	require.Equal(t, keyderive.HashClaim("alice@example.com"), first.ClaimHash)
	require.Equal(t, domain.MethodMagicLink, first.Method)

	// Re-registering, even under another method, returns the original row.
	again, err := svc.Register(ctx, "alice@example.com", domain.MethodWalletEthereum)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, domain.MethodMagicLink, again.Method)
}

func TestAccountRegisterValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", domain.MethodMagicLink)
	require.ErrorIs(t, err, ErrInvalidClaim)

	_, err = svc.Register(ctx, "alice@example.com", "")
	require.ErrorIs(t, err, ErrInvalidClaim)
}

func TestAccountLookup(t *testing.T) {
	t.Parallel()

	svc := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, keyderive.HashClaim("ghost@example.com"))
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.Lookup(ctx, "")
	require.ErrorIs(t, err, ErrAccountNotFound)

	created, err := svc.Register(ctx, "bob@example.com", domain.MethodMagicLink)
	require.NoError(t, err)

	found, err := svc.Lookup(ctx, keyderive.HashClaim("bob@example.com"))
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
}

func TestAccountLink(t *testing.T) {
	t.Parallel()

	svc := newAccountService(t)
	ctx := context.Background()

	owner, err := svc.Register(ctx, "owner@example.com", domain.MethodMagicLink)
	require.NoError(t, err)

	// Linking a wallet claim creates its directory row pointing at the owner.
	wallet := "0xabc0000000000000000000000000000000000def"
	require.NoError(t, svc.Link(ctx, "owner@example.com", domain.MethodMagicLink, wallet, domain.MethodWalletEthereum))

	linked, err := svc.Lookup(ctx, keyderive.HashClaim(wallet))
	require.NoError(t, err)
	require.Equal(t, domain.MethodWalletEthereum, linked.Method)
	require.NotNil(t, linked.LinkedID)
	require.Equal(t, owner.ID, *linked.LinkedID)

	require.ErrorIs(t, svc.Link(ctx, "", "", wallet, domain.MethodWalletEthereum), ErrInvalidClaim)
}

func TestAccountTouchLastAuth(t *testing.T) {
	t.Parallel()

	svc := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "stamp@example.com", domain.MethodMagicLink)
	require.NoError(t, err)

	svc.TouchLastAuth(ctx, "stamp@example.com")

	found, err := svc.Lookup(ctx, created.ClaimHash)
	require.NoError(t, err)
	require.False(t, found.LastAuthAt.Before(created.LastAuthAt))

	// Unknown claims are a silent no-op.
	svc.TouchLastAuth(ctx, "ghost@example.com")
}

package auth_test

import (
	"crypto/ed25519"
	"net/http"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/keyderive"
)

// TestAccountRegisterAndLookup registers an account from a session and then
// finds it by claim hash.
func TestAccountRegisterAndLookup(t *testing.T) {
	baseURL, container, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	login := loginWithMagicLink(t, client, container, "registered@example.com")

	account, err := client.RegisterAccount(t.Context(), login.SessionToken, "")
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.Equal(t, "magiclink", account.Method)
	require.Equal(t, keyderive.HashEmail("registered@example.com"), account.ClaimHash)

	// Registering again returns the same row, not a duplicate
	again, err := client.RegisterAccount(t.Context(), login.SessionToken, "")
	require.NoError(t, err)
	require.Equal(t, account.ID, again.ID)

	lookup, err := client.LookupAccount(t.Context(), account.ClaimHash)
	require.NoError(t, err)
	require.True(t, lookup.Registered)
	require.Equal(t, "magiclink", lookup.Method)

	t.Logf("Account %s registered and found by hash", account.ID)
}

// TestAccountLookupUnknown verifies an unknown hash answers registered=false
// with a 200, so clients can route to signup without error handling.
func TestAccountLookupUnknown(t *testing.T) {
	baseURL, _, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	lookup, err := client.LookupAccount(t.Context(), keyderive.HashEmail("never-seen@example.com"))
	require.NoError(t, err)
	require.False(t, lookup.Registered)
	require.Empty(t, lookup.Method)
}

// TestAccountRequiresSession verifies the register and link endpoints demand
// a bearer session. The middleware answers with a bare RFC 6750 401, so only
// the status is asserted.
func TestAccountRequiresSession(t *testing.T) {
	baseURL, _, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	_, err := client.RegisterAccount(t.Context(), "", "")
	require.Error(t, err)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	err = client.LinkAccount(t.Context(), "garbage-session", "someone@example.com", "magiclink")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

// TestAccountLinkWallet joins a wallet claim onto an email account and sees
// the link reflected in lookups.
func TestAccountLinkWallet(t *testing.T) {
	baseURL, container, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	login := loginWithMagicLink(t, client, container, "linker@example.com")

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	walletClaim := base58.Encode(pub)

	err = client.LinkAccount(t.Context(), login.SessionToken, walletClaim, "wallet:solana")
	require.NoError(t, err)

	// The wallet claim is now a registered row of its own, carrying the
	// method it was linked under
	lookup, err := client.LookupAccount(t.Context(), keyderive.HashClaim(walletClaim))
	require.NoError(t, err)
	require.True(t, lookup.Registered)
	require.Equal(t, "wallet:solana", lookup.Method)

	// The owning email account is untouched
	owner, err := client.LookupAccount(t.Context(), keyderive.HashEmail("linker@example.com"))
	require.NoError(t, err)
	require.True(t, owner.Registered)
	require.Equal(t, "magiclink", owner.Method)
}

// TestAccountLinkRequiresEmailSession verifies a wallet-proven session cannot
// link claims. Linking anchors onto an email account, so only a magic-link
// session passes the method gate.
func TestAccountLinkRequiresEmailSession(t *testing.T) {
	baseURL, _, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	address := base58.Encode(pub)
	sig := ed25519.Sign(priv, []byte(keyderive.SigningMessage))

	walletLogin, err := client.VerifyWallet(t.Context(), "solana", address, base58.Encode(sig))
	require.NoError(t, err)

	otherPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	err = client.LinkAccount(t.Context(), walletLogin.SessionToken, base58.Encode(otherPub), "wallet:solana")
	require.Error(t, err)

	// The gate answers with a bare 403, so only the status is asserted
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

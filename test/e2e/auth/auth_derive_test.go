package auth_test

import (
	"net/http"
	"testing"

	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/keyderive"
	"github.com/cloakboard/molt-auth/pkg/oprf"
	"github.com/stretchr/testify/require"
)

// TestDeriveKeysEndToEnd runs the whole password pipeline against a live
// server: blind, evaluate, unblind, stretch, expand. The same credentials
// must produce the same keys on every run, because clients re-derive instead
// of storing them.
func TestDeriveKeysEndToEnd(t *testing.T) {
	baseURL, container, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	login := loginWithMagicLink(t, client, container, "derive@example.com")

	first, err := client.DeriveFromPassword(t.Context(), login.SessionToken, "derive@example.com", "correct horse battery staple")
	require.NoError(t, err)
	require.Len(t, first.SecretKey, keyderive.KeySize)
	require.Len(t, first.SigningKey, keyderive.KeySize)
	require.NotEqual(t, first.SecretKey, first.SigningKey)

	second, err := client.DeriveFromPassword(t.Context(), login.SessionToken, "derive@example.com", "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, first.SecretKey, second.SecretKey, "derivation must be deterministic")
	require.Equal(t, first.SigningKey, second.SigningKey)
	require.Equal(t, first.Salt, second.Salt)

	// A different password lands on unrelated keys
	other, err := client.DeriveFromPassword(t.Context(), login.SessionToken, "derive@example.com", "a different password")
	require.NoError(t, err)
	require.NotEqual(t, first.SecretKey, other.SecretKey)

	t.Logf("Derived deterministic keys over the OPRF exchange")
}

// TestOPRFRequiresSession verifies evaluation is gated on a valid session
// token.
func TestOPRFRequiresSession(t *testing.T) {
	baseURL, container, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	blinded, _, err := oprf.Blind([]byte("whatever"))
	require.NoError(t, err)

	_, err = client.EvaluateOPRF(t.Context(), "not-a-session", blinded)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidSession)

	// A real session with one flipped character must fail the MAC check
	login := loginWithMagicLink(t, client, container, "tamper@example.com")
	tampered := []byte(login.SessionToken)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = client.EvaluateOPRF(t.Context(), string(tampered), blinded)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidSession)
}

// TestOPRFRejectsMalformedPoint verifies non-points are refused before any
// curve work happens.
func TestOPRFRejectsMalformedPoint(t *testing.T) {
	baseURL, container, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	login := loginWithMagicLink(t, client, container, "points@example.com")

	for _, bad := range []string{"zz", "04deadbeef", "02"} {
		_, err := client.EvaluateOPRF(t.Context(), login.SessionToken, bad)
		assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidPoint)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cloakboard/molt-auth/pkg/oprf"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
)

// Generator point and 7·G on secp256k1, compressed hex. Raw key "06" reduces
// to the effective scalar 7.
const (
	generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	sevenGHex    = "025cbdf0646e5db4eaa398f365f2ea7a0e3d419b7e0330e39ce92bddedcac4f9bc"
)

func newOPRFService(t *testing.T) (*OPRFService, *sessionx.Codec) {
	t.Helper()

	codec, err := sessionx.New(testSessionSecret, "molt-auth", 5*time.Minute)
	require.NoError(t, err)

	eval, err := oprf.NewEvaluator("06")
	require.NoError(t, err)

	return &OPRFService{Evaluator: eval, Sessions: codec}, codec
}

func TestOPRFServiceEvaluate(t *testing.T) {
	t.Parallel()

	svc, codec := newOPRFService(t)
	ctx := context.Background()

	token, err := codec.Create("alice@example.com", "magiclink")
	require.NoError(t, err)

	evaluated, err := svc.Evaluate(ctx, token, generatorHex)
	require.NoError(t, err)
	require.Equal(t, sevenGHex, evaluated)
}

func TestOPRFServiceRequiresValidSession(t *testing.T) {
	t.Parallel()

	svc, codec := newOPRFService(t)
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Evaluate(ctx, "not-a-session", generatorHex)
		require.ErrorIs(t, err, sessionx.ErrInvalidSession)
	})

	t.Run("expired session", func(t *testing.T) {
		token, err := codec.CreateAt("alice@example.com", "magiclink", time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, err = svc.Evaluate(ctx, token, generatorHex)
		require.ErrorIs(t, err, sessionx.ErrInvalidSession)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Evaluate(ctx, "", generatorHex)
		require.ErrorIs(t, err, sessionx.ErrInvalidSession)
	})
}

func TestOPRFServiceRejectsMalformedPoint(t *testing.T) {
	t.Parallel()

	svc, codec := newOPRFService(t)
	ctx := context.Background()

	token, err := codec.Create("alice@example.com", "magiclink")
	require.NoError(t, err)

	for _, bad := range []string{"", "zz", "04deadbeef", generatorHex[:10]} {
		_, err := svc.Evaluate(ctx, token, bad)
		require.ErrorIs(t, err, oprf.ErrInvalidPoint, "point %q", bad)
	}
}

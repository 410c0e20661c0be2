package oprf_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/cloakboard/molt-auth/pkg/oprf"
)

// Compressed encodings of G and 7G on secp256k1.
const (
	generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	sevenGHex    = "025cbdf0646e5db4eaa398f365f2ea7a0e3d419b7e0330e39ce92bddedcac4f9bc"
	twoGHex      = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
)

func TestEvaluateKnownScalar(t *testing.T) {
	t.Parallel()

	// Raw key 6 reduces to scalar (6 mod (N-1)) + 1 = 7.
	eval, err := oprf.NewEvaluator("06")
	require.NoError(t, err)

	out, err := eval.Evaluate(generatorHex)
	require.NoError(t, err)
	require.Equal(t, sevenGHex, out)
}

func TestKeyReduction(t *testing.T) {
	t.Parallel()

	nMinusOne := new(big.Int).Sub(crypto.S256().Params().N, big.NewInt(1))

	t.Run("wraps to one at group boundary", func(t *testing.T) {
		t.Parallel()

		eval, err := oprf.NewEvaluator(nMinusOne.Text(16))
		require.NoError(t, err)

		out, err := eval.Evaluate(generatorHex)
		require.NoError(t, err)
		require.Equal(t, generatorHex, out)
	})

	t.Run("zero raw key still yields a nonzero scalar", func(t *testing.T) {
		t.Parallel()

		eval, err := oprf.NewEvaluator("00")
		require.NoError(t, err)

		out, err := eval.Evaluate(generatorHex)
		require.NoError(t, err)
		require.Equal(t, generatorHex, out)
	})

	t.Run("leading zeros and 0x prefix are cosmetic", func(t *testing.T) {
		t.Parallel()

		for _, key := range []string{"06", "0006", "0x06", " 06 "} {
			eval, err := oprf.NewEvaluator(key)
			require.NoError(t, err, key)

			out, err := eval.Evaluate(generatorHex)
			require.NoError(t, err, key)
			require.Equal(t, sevenGHex, out, key)
		}
	})
}

func TestEvaluateIsLinear(t *testing.T) {
	t.Parallel()

	eval, err := oprf.NewEvaluator("a3f1c9")
	require.NoError(t, err)

	kG, err := eval.Evaluate(generatorHex)
	require.NoError(t, err)
	k2G, err := eval.Evaluate(twoGHex)
	require.NoError(t, err)

	// k·(2G) must equal 2·(k·G).
	kgBytes, err := hex.DecodeString(kG)
	require.NoError(t, err)
	kgPoint, err := crypto.DecompressPubkey(kgBytes)
	require.NoError(t, err)

	dx, dy := crypto.S256().ScalarMult(kgPoint.X, kgPoint.Y, []byte{2})

	k2gBytes, err := hex.DecodeString(k2G)
	require.NoError(t, err)
	k2gPoint, err := crypto.DecompressPubkey(k2gBytes)
	require.NoError(t, err)

	require.Zero(t, dx.Cmp(k2gPoint.X))
	require.Zero(t, dy.Cmp(k2gPoint.Y))
}

func TestEvaluateDeterministic(t *testing.T) {
	t.Parallel()

	eval, err := oprf.NewEvaluator("deadbeef")
	require.NoError(t, err)

	first, err := eval.Evaluate(generatorHex)
	require.NoError(t, err)
	second, err := eval.Evaluate(generatorHex)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEvaluateRejectsInvalidPoints(t *testing.T) {
	t.Parallel()

	eval, err := oprf.NewEvaluator("06")
	require.NoError(t, err)

	tests := []struct {
		name  string
		point string
	}{
		{"empty", ""},
		{"not hex", "zz"},
		{"odd length", "0"},
		{"too short", generatorHex[:64]},
		{"uncompressed prefix", "04" + generatorHex[2:] + generatorHex[2:66]},
		{"unknown prefix", "05" + generatorHex[2:]},
		{"x at field prime", "02fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"},
		{"x above field prime", "02ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := eval.Evaluate(tc.point)
			require.ErrorIs(t, err, oprf.ErrInvalidPoint)
		})
	}
}

func TestNewEvaluatorRejectsBadKeys(t *testing.T) {
	t.Parallel()

	_, err := oprf.NewEvaluator("")
	require.ErrorIs(t, err, oprf.ErrMissingKey)

	_, err = oprf.NewEvaluator("   ")
	require.ErrorIs(t, err, oprf.ErrMissingKey)

	_, err = oprf.NewEvaluator("not-hex")
	require.ErrorIs(t, err, oprf.ErrInvalidKey)
}

func TestBlindExchangeIsDeterministicAfterUnblinding(t *testing.T) {
	t.Parallel()

	eval, err := oprf.NewEvaluator("5f2c9a77e1")
	require.NoError(t, err)

	input := []byte("alice@example.com")

	exchange := func() ([]byte, []byte) {
		blinded, blinding, err := oprf.Blind(input)
		require.NoError(t, err)

		evaluated, err := eval.Evaluate(blinded)
		require.NoError(t, err)

		unblinded, err := blinding.Unblind(evaluated)
		require.NoError(t, err)
		output, err := blinding.Finalize(evaluated)
		require.NoError(t, err)
		return unblinded, output
	}

	point1, out1 := exchange()
	point2, out2 := exchange()

	// Fresh blinding factors must cancel out exactly.
	require.Equal(t, point1, point2)
	require.Equal(t, out1, out2)
	require.Len(t, out1, 32)
}

func TestBlindHidesTheInput(t *testing.T) {
	t.Parallel()

	input := []byte("alice@example.com")

	first, _, err := oprf.Blind(input)
	require.NoError(t, err)
	second, _, err := oprf.Blind(input)
	require.NoError(t, err)

	// Two blindings of the same input are unlinkable on the wire.
	require.NotEqual(t, first, second)
}

func TestOutputsDifferPerInput(t *testing.T) {
	t.Parallel()

	eval, err := oprf.NewEvaluator("5f2c9a77e1")
	require.NoError(t, err)

	outputs := make(map[string]bool)
	for _, input := range []string{"alice@example.com", "bob@example.com", "hunter2"} {
		blinded, blinding, err := oprf.Blind([]byte(input))
		require.NoError(t, err)

		evaluated, err := eval.Evaluate(blinded)
		require.NoError(t, err)

		out, err := blinding.Finalize(evaluated)
		require.NoError(t, err)
		outputs[hex.EncodeToString(out)] = true
	}
	require.Len(t, outputs, 3)
}

func TestOutputsDifferPerServerKey(t *testing.T) {
	t.Parallel()

	input := []byte("alice@example.com")

	run := func(key string) []byte {
		eval, err := oprf.NewEvaluator(key)
		require.NoError(t, err)

		blinded, blinding, err := oprf.Blind(input)
		require.NoError(t, err)
		evaluated, err := eval.Evaluate(blinded)
		require.NoError(t, err)
		out, err := blinding.Finalize(evaluated)
		require.NoError(t, err)
		return out
	}

	require.NotEqual(t, run("06"), run("07"))
}

func TestFinalizeRejectsGarbageEvaluation(t *testing.T) {
	t.Parallel()

	_, blinding, err := oprf.Blind([]byte("alice@example.com"))
	require.NoError(t, err)

	_, err = blinding.Finalize("zz")
	require.ErrorIs(t, err, oprf.ErrUnblindable)

	_, err = blinding.Unblind("02ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	require.ErrorIs(t, err, oprf.ErrUnblindable)
}

func TestBlindRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, _, err := oprf.Blind(nil)
	require.Error(t, err)
}

// Package oprf implements the oblivious pseudorandom function at the heart
// of passwordless key derivation. The client blinds its secret input, the
// server multiplies the blinded point by a long-lived scalar, and the client
// unblinds the result. The server never sees the input; the client never
// sees the scalar; the final output is deterministic per (scalar, input).
//
// The group is secp256k1, the same curve the Ethereum wallet flow signs on,
// with points on the wire as hex-encoded 33-byte compressed encodings.
package oprf

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// CompressedPointSize is the length in bytes of a wire-format point.
const CompressedPointSize = 33

var (
	// ErrMissingKey means no server scalar was configured. Deployments
	// treat this as fatal at startup.
	ErrMissingKey = errors.New("oprf: server key is required")

	// ErrInvalidKey means the configured scalar was not valid hex.
	ErrInvalidKey = errors.New("oprf: server key is not valid hex")

	// ErrInvalidPoint means the submitted encoding is not a group element.
	// Malformed hex, wrong length, and off-curve coordinates all land here;
	// a probing client learns nothing beyond "not a point".
	ErrInvalidPoint = errors.New("oprf: not a valid compressed curve point")
)

var one = big.NewInt(1)

// Evaluator holds the server scalar and performs blind evaluations. Safe for
// concurrent use; the scalar never changes after construction.
type Evaluator struct {
	k *big.Int
}

// NewEvaluator derives the working scalar from the configured hex secret.
// The raw value is reduced as k = (raw mod (N-1)) + 1, which maps any hex
// string of any length onto a valid nonzero scalar, so key material needs no
// strict range validation. An empty key is a configuration error.
func NewEvaluator(hexKey string) (*Evaluator, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, ErrMissingKey
	}

	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	n := crypto.S256().Params().N
	k := new(big.Int).SetBytes(raw)
	k.Mod(k, new(big.Int).Sub(n, one))
	k.Add(k, one)

	return &Evaluator{k: k}, nil
}

// Evaluate multiplies the blinded point by the server scalar and returns the
// result in the same hex compressed encoding. The input must decode to a
// point actually on the curve; everything else fails with ErrInvalidPoint
// before any secret-dependent work happens.
func (e *Evaluator) Evaluate(blindedHex string) (string, error) {
	point, err := decodePoint(blindedHex)
	if err != nil {
		return "", err
	}

	x, y := crypto.S256().ScalarMult(point.X, point.Y, e.k.Bytes())
	out := crypto.CompressPubkey(&ecdsa.PublicKey{Curve: crypto.S256(), X: x, Y: y})
	return hex.EncodeToString(out), nil
}

// decodePoint parses a hex compressed encoding into a curve point.
// DecompressPubkey rejects bad prefixes, x >= p, and x values with no square
// root, which together cover every off-curve encoding.
func decodePoint(hexPoint string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(hexPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	if len(raw) != CompressedPointSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPoint, len(raw), CompressedPointSize)
	}

	point, err := crypto.DecompressPubkey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return point, nil
}

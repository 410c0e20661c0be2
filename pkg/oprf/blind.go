package oprf

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

// hashTag domain-separates both the hash-to-point mapping and the final
// output hash from any other SHA-256 use of the same input.
const hashTag = "cloakboard.molt.oprf.v1"

// ErrUnblindable means the evaluated point could not be unblinded. It only
// occurs when the server response is not a valid point.
var ErrUnblindable = errors.New("oprf: evaluated point cannot be unblinded")

// Blinding is the client half of one OPRF exchange: the random factor r and
// the input it blinded. Single use; a fresh Blinding per exchange keeps the
// server from linking two requests for the same input.
type Blinding struct {
	r     *big.Int
	input []byte
}

// Blind maps the secret input onto the curve and masks it with a fresh
// random scalar. The returned hex point is safe to send to the server; the
// Blinding must stay on the client.
func Blind(input []byte) (string, *Blinding, error) {
	if len(input) == 0 {
		return "", nil, errors.New("oprf: input is empty")
	}

	hx, hy, err := hashToPoint(input)
	if err != nil {
		return "", nil, err
	}

	n := crypto.S256().Params().N
	r, err := rand.Int(rand.Reader, new(big.Int).Sub(n, one))
	if err != nil {
		return "", nil, fmt.Errorf("oprf: blinding factor: %w", err)
	}
	r.Add(r, one)

	bx, by := crypto.S256().ScalarMult(hx, hy, r.Bytes())
	blinded := crypto.CompressPubkey(&ecdsa.PublicKey{Curve: crypto.S256(), X: bx, Y: by})

	own := make([]byte, len(input))
	copy(own, input)
	return hex.EncodeToString(blinded), &Blinding{r: r, input: own}, nil
}

// Unblind strips the blinding factor from the server's evaluation, leaving
// k·H(input) in compressed form.
func (b *Blinding) Unblind(evaluatedHex string) ([]byte, error) {
	point, err := decodePoint(evaluatedHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnblindable, err)
	}

	n := crypto.S256().Params().N
	rInv := new(big.Int).ModInverse(b.r, n)
	if rInv == nil {
		return nil, ErrUnblindable
	}

	x, y := crypto.S256().ScalarMult(point.X, point.Y, rInv.Bytes())
	return crypto.CompressPubkey(&ecdsa.PublicKey{Curve: crypto.S256(), X: x, Y: y}), nil
}

// Finalize unblinds the evaluation and hashes it together with the original
// input into the 32-byte OPRF output. This is the secret the key derivation
// engine stretches; the raw input never reaches the server, and the output
// is useless without the server scalar.
func (b *Blinding) Finalize(evaluatedHex string) ([]byte, error) {
	unblinded, err := b.Unblind(evaluatedHex)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	h.Write([]byte(hashTag))
	h.Write(b.input)
	h.Write(unblinded)
	return h.Sum(nil), nil
}

// hashToPoint maps arbitrary bytes onto the curve by try-and-increment:
// hash the tagged input with a counter, interpret the digest as a
// compressed x coordinate, and retry until decompression succeeds. Each
// counter value lands on the curve with probability about one half, so the
// loop bound is unreachable in practice.
func hashToPoint(input []byte) (*big.Int, *big.Int, error) {
	candidate := make([]byte, CompressedPointSize)
	candidate[0] = 0x02

	for ctr := 0; ctr < 256; ctr++ {
		h := sha256.New()
		h.Write([]byte(hashTag))
		h.Write(input)
		h.Write([]byte{byte(ctr)})
		copy(candidate[1:], h.Sum(nil))

		point, err := crypto.DecompressPubkey(candidate)
		if err == nil {
			return point.X, point.Y, nil
		}
	}
	return nil, nil, errors.New("oprf: hash-to-point failed")
}

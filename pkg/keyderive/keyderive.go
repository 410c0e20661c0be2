// Package keyderive turns an authentication factor (a password, an OPRF
// output, or a wallet signature) into the fixed bundle of account keys the
// rest of the platform builds on. Both engines run the same HKDF-SHA256
// construction; only the input keying material and the salt domain differ,
// so the same factor always yields the same keys on any client.
package keyderive

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length in bytes of every derived output.
const KeySize = 32

// keyDomain separates this construction from any other HKDF use of the same
// inputs. Bump the version suffix only with a migration plan: changing it
// silently re-keys every account.
const keyDomain = "cloakboard.molt.keys.v1"

// SigningMessage is the constant message wallets sign, both to prove
// ownership and to seed SignatureKeys. Wallet signatures are deterministic
// over fixed bytes, so the same wallet always yields the same keys. Changing
// this string orphans every signature-derived account.
const SigningMessage = "Cloakboard key derivation v1\n\n" +
	"Sign this message to access your account. " +
	"This request will not trigger a blockchain transaction or cost any fees."

var (
	// ErrEmptySecret means the input keying material is missing.
	ErrEmptySecret = errors.New("keyderive: secret is empty")

	// ErrEmptyEmail means the password engine got no identity to salt with.
	ErrEmptyEmail = errors.New("keyderive: email is empty")
)

// DerivedKeys is the account key bundle. SecretKey encrypts, SigningKey
// signs, Salt feeds downstream account construction. Callers own the bytes
// and must Wipe them once the account is built.
type DerivedKeys struct {
	SecretKey  []byte
	SigningKey []byte
	Salt       []byte
}

// Wipe overwrites all three keys with zeros in place.
func (k *DerivedKeys) Wipe() {
	zero(k.SecretKey)
	zero(k.SigningKey)
	zero(k.Salt)
}

// PasswordKeys derives the bundle from a secret and the normalized email it
// belongs to. The email contributes no entropy; it only salts the expansion
// so two users with the same password end up with unrelated keys. In the
// OPRF flow the secret is the unblinded OPRF output rather than the raw
// password.
func PasswordKeys(secret []byte, email string) (DerivedKeys, error) {
	if len(secret) == 0 {
		return DerivedKeys{}, ErrEmptySecret
	}
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return DerivedKeys{}, ErrEmptyEmail
	}

	salt := sha256.Sum256([]byte(keyDomain + "|email|" + normalized))
	return expand(secret, salt[:])
}

// SignatureKeys derives the bundle from a wallet signature over
// SigningMessage. Ethereum and Solana signatures both pass through here
// unchanged; chain differences end in the wallet.
func SignatureKeys(signature []byte) (DerivedKeys, error) {
	if len(signature) == 0 {
		return DerivedKeys{}, ErrEmptySecret
	}

	salt := sha256.Sum256([]byte(keyDomain + "|signature"))
	return expand(signature, salt[:])
}

// expand runs one HKDF-Extract and three label-separated Expands. Distinct
// info labels make the outputs cryptographically independent even though
// they share a PRK.
func expand(ikm, salt []byte) (DerivedKeys, error) {
	prk := hkdf.Extract(sha256.New, ikm, salt)
	defer zero(prk)

	var keys DerivedKeys
	for _, out := range []struct {
		label string
		dst   *[]byte
	}{
		{"secret-key", &keys.SecretKey},
		{"signing-key", &keys.SigningKey},
		{"salt", &keys.Salt},
	} {
		buf := make([]byte, KeySize)
		if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, []byte(out.label)), buf); err != nil {
			keys.Wipe()
			return DerivedKeys{}, fmt.Errorf("keyderive: expand %q: %w", out.label, err)
		}
		*out.dst = buf
	}
	return keys, nil
}

// NormalizeEmail maps the address to its canonical form. Every email
// entering derivation, hashing, or storage goes through here first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashClaim returns the hex SHA-256 of an identity claim exactly as given.
// The directory stores this instead of the claim itself, so "has this
// identity been seen" is answerable without holding it. Callers normalize
// first; base58 wallet addresses are case-sensitive and must not be folded.
func HashClaim(claim string) string {
	sum := sha256.Sum256([]byte(claim))
	return hex.EncodeToString(sum[:])
}

// HashEmail is HashClaim over the normalized address.
func HashEmail(email string) string {
	return HashClaim(NormalizeEmail(email))
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

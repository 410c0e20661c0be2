package authsdk

import (
	"context"
	"crypto/sha256"

	"golang.org/x/crypto/argon2"

	"github.com/cloakboard/molt-auth/pkg/keyderive"
	"github.com/cloakboard/molt-auth/pkg/oprf"
)

// Argon2id parameters for the key stretching function applied to the OPRF
// output. Fixed forever: changing any of them re-keys every password
// account.
const (
	ksfTime    = 3
	ksfMemory  = 64 * 1024 // KiB
	ksfThreads = 1
)

// ksfDomain salts the stretch per identity so equal passwords on different
// accounts stretch to unrelated values.
const ksfDomain = "cloakboard.molt.ksf.v1"

// DeriveFromPassword runs the complete password-to-keys pipeline: blind the
// password, have the server evaluate it under its OPRF key, unblind and hash
// the result, stretch it with argon2id, and expand the account key bundle.
// The password never leaves the client in any recoverable form.
func (c *Client) DeriveFromPassword(ctx context.Context, sessionToken, email, password string) (keyderive.DerivedKeys, error) {
	normalized := keyderive.NormalizeEmail(email)
	if normalized == "" {
		return keyderive.DerivedKeys{}, keyderive.ErrEmptyEmail
	}
	if password == "" {
		return keyderive.DerivedKeys{}, keyderive.ErrEmptySecret
	}

	blinded, blinding, err := oprf.Blind([]byte(password))
	if err != nil {
		return keyderive.DerivedKeys{}, err
	}

	evaluated, err := c.EvaluateOPRF(ctx, sessionToken, blinded)
	if err != nil {
		return keyderive.DerivedKeys{}, err
	}

	output, err := blinding.Finalize(evaluated)
	if err != nil {
		return keyderive.DerivedKeys{}, err
	}

	stretched := stretchOPRFOutput(output, normalized)
	keys, err := keyderive.PasswordKeys(stretched, normalized)

	for i := range output {
		output[i] = 0
	}
	for i := range stretched {
		stretched[i] = 0
	}
	return keys, err
}

// stretchOPRFOutput applies the argon2id KSF so offline guessing of the
// password from a captured OPRF transcript stays expensive.
func stretchOPRFOutput(output []byte, normalizedEmail string) []byte {
	salt := sha256.Sum256([]byte(ksfDomain + "|" + normalizedEmail))
	return argon2.IDKey(output, salt[:], ksfTime, ksfMemory, ksfThreads, keyderive.KeySize)
}

// Package sessionx encodes and verifies the short-lived, stateless session
// tokens that bridge the steps of an authentication flow (for example a
// magic-link verification to the OPRF exchange that follows it). Tokens are
// HMAC-signed and entirely self-describing; no server-side record is needed
// to validate one.
package sessionx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is deliberately short. A session token exists to bridge two
// steps of a single flow, not to keep a user logged in.
const DefaultTTL = 5 * time.Minute

// MinSecretLen is the minimum accepted MAC secret length in bytes.
const MinSecretLen = 32

var (
	// ErrNoSecret means the MAC secret is absent. Deployments must treat
	// this as fatal at startup; there is no insecure fallback.
	ErrNoSecret = errors.New("sessionx: session secret is required")

	// ErrWeakSecret means the MAC secret is too short to bother with.
	ErrWeakSecret = errors.New("sessionx: session secret must be at least 32 bytes")

	// ErrInvalidSession is the single failure result for verification. Bad
	// shape, bad MAC, expired, wrong issuer: callers get the same answer so
	// nothing about the failure mode leaks to a probing client.
	ErrInvalidSession = errors.New("sessionx: invalid or expired session")
)

// Claims carry the verified identity claim and the method that proved it.
type Claims struct {
	jwt.RegisteredClaims

	// Claim is the identity the token vouches for: a normalized email
	// address or a wallet address.
	Claim string `json:"clm"`

	// Method records how the claim was proven, e.g. "email",
	// "wallet:ethereum", "wallet:solana".
	Method string `json:"mth"`
}

// Verifier validates a session token and returns its claims if it is legit.
// Codec satisfies it; InsecureCodec satisfies it for test harnesses.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Codec signs and verifies session tokens with HMAC-SHA256. Verification is
// stateless and safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// New builds a Codec. A missing or weak secret is a configuration error,
// never a silent downgrade.
func New(secret []byte, issuer string, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Codec{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Create mints a token binding claim and method for the configured TTL.
func (c *Codec) Create(claim, method string) (string, error) {
	return c.CreateAt(claim, method, time.Now().UTC())
}

// CreateAt is Create with an explicit issue time, for deterministic tests.
func (c *Codec) CreateAt(claim, method string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        newJTI(),
		},
		Claim:  claim,
		Method: method,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sessionx: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the MAC (constant-time, inside golang-jwt), the expiry, and
// the issuer, then returns the claims. Every failure collapses to
// ErrInvalidSession; the underlying cause stays in the wrapped error for
// server-side logs only.
func (c *Codec) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		// Reject non-canonical base64 so a token has exactly one valid
		// byte representation.
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !parsed.Valid || claims.Claim == "" {
		return Claims{}, ErrInvalidSession
	}

	return claims, nil
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

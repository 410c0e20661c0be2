package domain

import "time"

// MagicToken is the stored form of a single-use magic-link token. The opaque
// value mailed to the user never persists; only its fingerprint does, so a
// leaked database cannot be replayed as live links.
type MagicToken struct {
	ID          string
	Fingerprint string // deterministic fingerprint (base64url SHA-256)
	Claim       string // normalized email the link proves ownership of
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ConsumedAt  *time.Time // nil until the one successful consume
}

// Consumed reports whether the token has already been spent.
func (t MagicToken) Consumed() bool { return t.ConsumedAt != nil }

// Expired reports whether the token is past its lifetime. A token is valid
// strictly before ExpiresAt and invalid at the instant itself.
func (t MagicToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// Active reports whether the token could still be consumed at now.
func (t MagicToken) Active(now time.Time) bool { return !t.Consumed() && !t.Expired(now) }

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"net/url"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/metrics"
	"github.com/cloakboard/molt-auth/internal/auth/store"
	"github.com/cloakboard/molt-auth/pkg/cryptox"
	"github.com/cloakboard/molt-auth/pkg/idx"
	"github.com/cloakboard/molt-auth/pkg/keyderive"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

// DefaultMagicLinkTTL bounds how long an unconsumed link stays redeemable.
const DefaultMagicLinkTTL = 30 * time.Minute

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Mailer delivers a magic link out of band. The service never learns whether
// the address exists; delivery failures are the only cause it surfaces.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

// LogMailer writes the link to the log instead of sending mail. Default for
// dev environments and the test harness.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendMagicLink(ctx context.Context, email, link string) error {
	m.Logger.Info("magic link issued",
		slog.String("claim_hash", keyderive.HashEmail(email)),
		slog.String("link", link),
	)
	return nil
}

// MagicLinkService issues, peeks, and consumes single-use login tokens. The
// raw token only ever exists in the delivered link; the store sees its
// fingerprint.
type MagicLinkService struct {
	Store    store.Store
	Sessions *sessionx.Codec
	Accounts *AccountService
	Mailer   Mailer
	BaseURL  string
	TTL      time.Duration
}

func (s *MagicLinkService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultMagicLinkTTL
	}
	return s.TTL
}

// Request issues a fresh token for the address and hands the link to the
// mailer. The response carries no registration state, so the endpoint cannot
// be used to probe which emails exist.
func (s *MagicLinkService) Request(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	// 1. Validate and normalize the address.
	parsed, err := mail.ParseAddress(email)
	if err != nil {
		log.Warn("magic link requested for malformed address")
		return ErrInvalidEmail
	}
	claim := keyderive.NormalizeEmail(parsed.Address)

	// 2. Generate the opaque token and its storage fingerprint.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate magic link token", slog.Any("error", err))
		return err
	}
	fingerprint := cryptox.FingerprintToken(token)

	// 3. Persist the token record.
	now := time.Now().UTC()
	err = s.Store.Tokens().CreateToken(ctx, domain.MagicToken{
		ID:          idx.New().String(),
		Fingerprint: fingerprint,
		Claim:       claim,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.ttl()),
	})
	if err != nil {
		log.Error("failed to store magic link token", slog.Any("error", err))
		return err
	}

	// 4. Build the link and deliver it.
	link, err := buildMagicLink(s.BaseURL, token)
	if err != nil {
		log.Error("failed to build magic link", slog.Any("error", err))
		return err
	}
	if err := s.Mailer.SendMagicLink(ctx, claim, link); err != nil {
		log.Error("failed to deliver magic link", slog.Any("error", err))
		return err
	}

	metrics.TokensIssued.Inc()
	log.Info("magic link requested",
		slog.String("claim_hash", keyderive.HashClaim(claim)),
		slog.Time("expires_at", now.Add(s.ttl())),
	)
	return nil
}

// Peek resolves a raw token to its claim without consuming it. Lets the
// verify page show who is signing in before the irreversible step.
func (s *MagicLinkService) Peek(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	fingerprint := cryptox.FingerprintToken(token)
	tok, err := s.Store.Tokens().GetActiveToken(ctx, fingerprint, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidToken
		}
		slogx.FromContext(ctx).Error("failed to peek magic link token", slog.Any("error", err))
		return "", err
	}

	return tok.Claim, nil
}

// Consume redeems the token and mints the session that bridges into key
// derivation. Unknown, expired, and already-consumed tokens are
// indistinguishable to the caller.
func (s *MagicLinkService) Consume(ctx context.Context, token string) (Session, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		metrics.TokenConsumptions.WithLabelValues(metrics.ResultInvalid).Inc()
		return Session{}, ErrInvalidToken
	}

	// 1. Atomically claim the token; concurrent redeemers race for one win.
	fingerprint := cryptox.FingerprintToken(token)
	tok, err := s.Store.Tokens().ConsumeToken(ctx, fingerprint, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.TokenConsumptions.WithLabelValues(metrics.ResultInvalid).Inc()
			log.Warn("magic link consume attempted with invalid or expired token")
			return Session{}, ErrInvalidToken
		}
		metrics.TokenConsumptions.WithLabelValues(metrics.ResultError).Inc()
		log.Error("failed to consume magic link token", slog.Any("error", err))
		return Session{}, err
	}

	// 2. Email ownership proven; mint the session.
	sess, err := mintSession(ctx, s.Sessions, s.Accounts, tok.Claim, domain.MethodMagicLink)
	if err != nil {
		metrics.TokenConsumptions.WithLabelValues(metrics.ResultError).Inc()
		return Session{}, err
	}

	metrics.TokenConsumptions.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("magic link consumed",
		slog.String("token_id", tok.ID),
		slog.String("claim_hash", keyderive.HashClaim(tok.Claim)),
	)
	return sess, nil
}

// buildMagicLink appends the token to the verify page URL, preserving any
// query parameters the base already carries.
func buildMagicLink(base, token string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

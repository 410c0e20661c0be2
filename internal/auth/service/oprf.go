package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cloakboard/molt-auth/internal/auth/metrics"
	"github.com/cloakboard/molt-auth/pkg/keyderive"
	"github.com/cloakboard/molt-auth/pkg/oprf"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

// OPRFService gates blinded-point evaluation behind a valid session. The
// session check runs before any curve work so unauthenticated traffic never
// costs a scalar multiplication.
type OPRFService struct {
	Evaluator *oprf.Evaluator
	Sessions  sessionx.Verifier
}

// Ready reports whether the service can evaluate points at all. Used by the
// readiness probe.
func (s *OPRFService) Ready() bool {
	return s != nil && s.Evaluator != nil && s.Sessions != nil
}

// Evaluate verifies the session token, then multiplies the blinded point by
// the server key. Failures keep their package sentinels
// (sessionx.ErrInvalidSession, oprf.ErrInvalidPoint) so the handler can map
// them to distinct statuses.
func (s *OPRFService) Evaluate(ctx context.Context, sessionToken, blindedPoint string) (string, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.Sessions.Verify(sessionToken)
	if err != nil {
		metrics.SessionVerifications.WithLabelValues(metrics.ResultInvalid).Inc()
		log.Warn("oprf evaluation with invalid session")
		return "", err
	}
	metrics.SessionVerifications.WithLabelValues(metrics.ResultSuccess).Inc()

	evaluated, err := s.Evaluator.Evaluate(blindedPoint)
	if err != nil {
		if errors.Is(err, oprf.ErrInvalidPoint) {
			metrics.OPRFEvaluations.WithLabelValues(metrics.ResultInvalid).Inc()
			log.Warn("oprf evaluation rejected malformed point")
			return "", err
		}
		metrics.OPRFEvaluations.WithLabelValues(metrics.ResultError).Inc()
		log.Error("oprf evaluation failed", slog.Any("error", err))
		return "", err
	}

	metrics.OPRFEvaluations.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Debug("oprf evaluation served",
		slog.String("claim_hash", keyderive.HashClaim(claims.Claim)),
	)
	return evaluated, nil
}

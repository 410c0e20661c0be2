package service

import (
	"context"
	"log/slog"

	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

// Session is the result of a successful authentication step: the proven
// identity claim plus a short-lived session token bridging it into the key
// derivation flow.
type Session struct {
	Claim string
	Token string
}

// mintSession creates the session token and records the auth in the account
// directory. Directory writes are best effort; a bookkeeping failure never
// turns a proven login into an error.
func mintSession(ctx context.Context, codec *sessionx.Codec, accounts *AccountService, claim, method string) (Session, error) {
	token, err := codec.Create(claim, method)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to mint session token", slog.Any("error", err))
		return Session{}, err
	}

	if accounts != nil {
		if _, err := accounts.Register(ctx, claim, method); err == nil {
			accounts.TouchLastAuth(ctx, claim)
		}
	}

	return Session{Claim: claim, Token: token}, nil
}

package httpx

import (
	"context"

	"github.com/cloakboard/molt-auth/pkg/sessionx"
)

type ctxKey string

const (
	CtxKeyClaim   ctxKey = "claim"
	CtxKeyMethod  ctxKey = "method"
	CtxKeySession ctxKey = "session" // full sessionx.Claims
)

// SessionFromContext returns the verified session claims injected by
// RequireSession.
func SessionFromContext(ctx context.Context) (sessionx.Claims, bool) {
	v, ok := ctx.Value(CtxKeySession).(sessionx.Claims)
	return v, ok
}

func methodFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyMethod).(string); ok {
		return v
	}
	return ""
}

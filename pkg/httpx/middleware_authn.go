package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

// RequireSession gates a route on a valid bearer session token. Verified
// claims land in the request context for downstream handlers.
func RequireSession(v sessionx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "session verification failed")
				log.Warn("session verify failed", "err", err)
				return
			}

			// Inject into context for downstream handlers.
			ctx = ContextWithSession(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithSession records verified session claims on the context.
// Exported so handler tests can bypass the middleware.
func ContextWithSession(ctx context.Context, c sessionx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyClaim, c.Claim)
	ctx = context.WithValue(ctx, CtxKeyMethod, c.Method)
	ctx = context.WithValue(ctx, CtxKeySession, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}

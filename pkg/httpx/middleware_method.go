package httpx

import (
	"net/http"
	"strings"
)

// RequireAnyMethod gates a route on how the session's claim was proven. Some
// operations only make sense for certain proof methods, e.g. linking a
// wallet onto an account requires a session proven by email ownership.
func RequireAnyMethod(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, m := range allowed {
		want[m] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := methodFromCtx(r.Context())
			if _, ok := want[method]; ok {
				next.ServeHTTP(w, r)
				return
			}

			writeBearerMethodError(w, http.StatusForbidden, allowed...)
		})
	}
}

// RFC 6750-style error response for a session proven by the wrong method.
func writeBearerMethodError(w http.ResponseWriter, code int, allowed ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(allowed, " ")+`"`)
	w.WriteHeader(code)
	_, _ = w.Write([]byte("insufficient_method"))
}

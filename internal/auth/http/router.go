package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/metrics"
	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/internal/auth/store"
	"github.com/cloakboard/molt-auth/pkg/httpx"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"

	_ "github.com/cloakboard/molt-auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessions     sessionx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	MagicLinkService *service.MagicLinkService
	OPRFService      *service.OPRFService
	WalletService    *service.WalletService
	AccountService   *service.AccountService
}

func NewRouter(
	sessions sessionx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		sessions:     sessions,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTP,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Molt Authentication Service API
//	@version		0.1.0
//	@description	Passwordless authentication service: magic-link login, wallet signature login,
//	@description	and the server half of OPRF-based key derivation. The server never sees a
//	@description	password or a derived key.
//
//	@contact.name				Cloakboard Team
//	@contact.url				https://github.com/cloakboard/molt-auth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from a verified login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	requestHandler := &MagicLinkRequestHandler{MagicLinkService: r.MagicLinkService}
	verifyHandler := &VerifyHandler{MagicLinkService: r.MagicLinkService}

	// POST /auth/magiclink - strict rate limit (sends mail)
	// Note: Rate limited by IP + email body field to prevent mail spam
	r.Mux.Handle("POST /v1/auth/magiclink",
		httpx.Chain(requestHandler,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	// GET /auth/verify - moderate rate limit (peek, does not consume)
	r.Mux.Handle("GET /v1/auth/verify",
		httpx.Chain(http.HandlerFunc(verifyHandler.HandleGet),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/verify - strict rate limit (consumes the token)
	r.Mux.Handle("POST /v1/auth/verify",
		httpx.Chain(http.HandlerFunc(verifyHandler.HandlePost),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/oprf/evaluate - moderate rate limit; the session token in
	// the body gates access, the limit only caps throughput
	oprfHandler := &OPRFEvaluateHandler{OPRFService: r.OPRFService}
	r.Mux.Handle("POST /v1/auth/oprf/evaluate",
		httpx.Chain(oprfHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/wallet/verify - strict rate limit (authentication attempts)
	walletHandler := &WalletVerifyHandler{WalletService: r.WalletService}
	r.Mux.Handle("POST /v1/auth/wallet/verify",
		httpx.Chain(walletHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	// POST /v1/accounts - register the bearer session's claim - moderate limit
	securedRegister := httpx.Chain(http.HandlerFunc(h.HandleRegister),
		httpx.RequireSession(r.sessions),
		httpx.RateLimitBySession(httpx.ModerateLimit),
	)

	// GET /v1/accounts/{claim_hash} - public signup-vs-login probe - strict
	// limit by IP to slow directory enumeration
	limitedLookup := httpx.Chain(http.HandlerFunc(h.HandleLookup),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)

	// POST /v1/accounts/link - bind a second auth method - moderate limit.
	// Only email-proven sessions may link; a wallet session linking claims
	// onto itself has no account to anchor them to.
	securedLink := httpx.Chain(http.HandlerFunc(h.HandleLink),
		httpx.RequireSession(r.sessions),
		httpx.RequireAnyMethod(domain.MethodMagicLink),
		httpx.RateLimitBySession(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/accounts", securedRegister)
	r.Mux.Handle("GET /v1/accounts/{claim_hash}", limitedLookup)
	r.Mux.Handle("POST /v1/accounts/link", securedLink)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.sessions, r.OPRFService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(metrics.Handler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

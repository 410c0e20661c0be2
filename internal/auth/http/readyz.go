package http

import (
	"net/http"
	"time"

	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/internal/auth/store"
	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/httpx"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the store, session codec, and OPRF evaluator
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	sessions sessionx.Verifier,
	oprf *service.OPRFService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Store:    "ok",
			Sessions: "ok",
			OPRF:     "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check store connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// The codec is stateless; its only failure mode is not being built
		if sessions == nil {
			checks.Sessions = "error: no session codec"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Check the OPRF evaluator holds a key
		if !oprf.Ready() {
			checks.OPRF = "error: no evaluator key"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}

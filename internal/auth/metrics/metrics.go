// Package metrics registers the service's Prometheus collectors and exposes
// the scrape handler plus an HTTP middleware that instruments every route.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values shared by the outcome-keyed counters.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultExpired = "expired"
	ResultError   = "error"
)

var (
	// TokensIssued counts magic link tokens handed to the mailer.
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "molt",
		Subsystem: "auth",
		Name:      "tokens_issued_total",
		Help:      "Total number of magic link tokens issued.",
	})

	// TokenConsumptions counts consume attempts by result.
	TokenConsumptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "molt",
		Subsystem: "auth",
		Name:      "token_consumptions_total",
		Help:      "Total number of magic link consume attempts, by result.",
	}, []string{"result"}) // success, invalid, expired

	// SessionVerifications counts session token checks by result.
	SessionVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "molt",
		Subsystem: "auth",
		Name:      "session_verifications_total",
		Help:      "Total number of session token verifications, by result.",
	}, []string{"result"}) // success, invalid

	// OPRFEvaluations counts blinded-point evaluations by result.
	OPRFEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "molt",
		Subsystem: "auth",
		Name:      "oprf_evaluations_total",
		Help:      "Total number of OPRF evaluations, by result.",
	}, []string{"result"}) // success, invalid

	// WalletVerifications counts wallet ownership proofs by chain and result.
	WalletVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "molt",
		Subsystem: "auth",
		Name:      "wallet_verifications_total",
		Help:      "Total number of wallet signature verifications, by chain and result.",
	}, []string{"chain", "result"}) // ethereum|solana, success|invalid

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "molt",
		Subsystem: "auth",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, path and status code.",
	}, []string{"method", "path", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "molt",
		Subsystem: "auth",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds, by method and path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Handler serves the Prometheus exposition format for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTP instruments a handler with request count and duration metrics.
func HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := normalizePath(r.URL.Path)
		httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses variable path segments so label cardinality stays
// bounded. The account lookup route is the only one carrying a per-user
// value in the path.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if strings.HasPrefix(path, "/v1/accounts/") && path != "/v1/accounts/link" {
		return "/v1/accounts/{claim_hash}"
	}
	return path
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

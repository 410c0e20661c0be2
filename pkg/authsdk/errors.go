package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cloakboard/molt-auth/pkg/httpx"
)

// Error codes shared by the server handlers and the SDK client.
const (
	ErrorCodeInvalidRequest   = "invalid_request"
	ErrorCodeInvalidToken     = "invalid_token"
	ErrorCodeInvalidSession   = "invalid_session"
	ErrorCodeInvalidPoint     = "invalid_point"
	ErrorCodeInvalidSignature = "invalid_signature"
	ErrorCodeUnsupportedChain = "unsupported_chain"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeRateLimited      = "rate_limit_exceeded"
	ErrorCodeServerError      = "server_error"
)

// APIError is the structured error both sides of the wire speak. Handlers
// write it as the HTTP response; the client parses error bodies back into it
// so callers can switch on Code.
type APIError struct {
	// StatusCode is the HTTP status this error travels with.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a short human-readable explanation. Never carries
	// which specific check failed for invalid tokens or sessions.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

var (
	// ErrInvalidRequest covers malformed bodies and missing fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrTokenRequired is the verify endpoints' missing-token error.
	ErrTokenRequired = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Token is required",
	}

	// ErrTokenInvalid covers unknown, expired, and consumed tokens alike.
	ErrTokenInvalid = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "Invalid or expired token",
	}

	// ErrSessionInvalid covers failed MAC checks and expired sessions alike.
	ErrSessionInvalid = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidSession,
		Description: "Invalid or expired session",
	}

	// ErrPointInvalid means the blinded input is not a group element.
	ErrPointInvalid = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidPoint,
		Description: "blinded point is not a valid curve point",
	}

	// ErrServerError is the generic internal failure. Cause stays in logs.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response body into a typed *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

package authsdk

import "time"

// Wire types shared by the HTTP handlers and the SDK client. Domain payload
// fields are camelCase; error bodies keep the error/error_description shape.

// RequestMagicLinkRequest asks the server to email a login link.
type RequestMagicLinkRequest struct {
	Email string `json:"email"`
}

// StatusResponse acknowledges an accepted request without revealing state.
type StatusResponse struct {
	Status string `json:"status"`
}

// ConsumeMagicLinkRequest redeems a magic link token.
type ConsumeMagicLinkRequest struct {
	Token string `json:"token"`
}

// VerifyResponse reports a proven identity claim. SessionToken is set only
// by consuming calls; the GET peek omits it.
type VerifyResponse struct {
	Success       bool   `json:"success"`
	IdentityClaim string `json:"identityClaim"`
	SessionToken  string `json:"sessionToken,omitempty"`
}

// OPRFEvaluateRequest carries one blinded curve point and the session token
// authorizing its evaluation. The session rides in the body rather than a
// bearer header; the endpoint is called mid-flow by code that already holds
// the token as data.
type OPRFEvaluateRequest struct {
	BlindedPoint string `json:"blindedPoint"`
	SessionToken string `json:"sessionToken"`
}

// OPRFEvaluateResponse returns the evaluated point, compressed hex.
type OPRFEvaluateResponse struct {
	OK             bool   `json:"ok"`
	EvaluatedPoint string `json:"evaluatedPoint"`
}

// VerifyWalletRequest proves ownership of a wallet address via a signature
// over the standard signing message.
type VerifyWalletRequest struct {
	Chain     string `json:"chain"`
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

// RegisterAccountRequest records the caller's claim in the account
// directory. The claim itself comes from the bearer session, not the body.
type RegisterAccountRequest struct {
	Method string `json:"method"`
}

// LinkAccountRequest binds an additional auth method's claim to the bearer
// session's account.
type LinkAccountRequest struct {
	Claim  string `json:"claim"`
	Method string `json:"method"`
}

// AccountResponse is one account directory row.
type AccountResponse struct {
	ID         string    `json:"id"`
	ClaimHash  string    `json:"claimHash"`
	Method     string    `json:"method"`
	LinkedID   string    `json:"linkedId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	LastAuthAt time.Time `json:"lastAuthAt"`
}

// LookupAccountResponse answers the signup-vs-login routing question.
type LookupAccountResponse struct {
	Registered bool   `json:"registered"`
	Method     string `json:"method,omitempty"`
}

// ErrorResponse is the error body every endpoint uses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthChecks reports per-dependency status in readiness probes.
type HealthChecks struct {
	Store    string `json:"store,omitempty"`
	Sessions string `json:"sessions,omitempty"`
	OPRF     string `json:"oprf,omitempty"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

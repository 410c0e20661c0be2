package authsdk

import (
	"context"
	"net/http"
)

// RegisterAccount records the bearer session's claim in the account
// directory. Idempotent; re-registering returns the existing row.
func (c *Client) RegisterAccount(ctx context.Context, sessionToken, method string) (AccountResponse, error) {
	var out AccountResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/accounts", sessionToken,
		RegisterAccountRequest{Method: method}, &out, http.StatusOK)
	return out, err
}

// LookupAccount asks whether a claim hash has registered before, for
// signup-vs-login routing. Takes the hex SHA-256 of the claim, never the
// claim itself.
func (c *Client) LookupAccount(ctx context.Context, claimHash string) (LookupAccountResponse, error) {
	var out LookupAccountResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/accounts/"+claimHash, "", nil, &out, http.StatusOK)
	return out, err
}

// LinkAccount binds another auth method's claim to the bearer session's
// account.
func (c *Client) LinkAccount(ctx context.Context, sessionToken, claim, method string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/accounts/link", sessionToken,
		LinkAccountRequest{Claim: claim, Method: method}, nil, http.StatusNoContent)
}

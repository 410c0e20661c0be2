package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// RequestMagicLink asks the server to deliver a login link. The response is
// identical whether or not the address is registered.
func (c *Client) RequestMagicLink(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/magiclink", "",
		RequestMagicLinkRequest{Email: email}, nil, http.StatusAccepted)
}

// PeekMagicLink resolves a token to its identity claim without consuming
// it. Safe to call any number of times.
func (c *Client) PeekMagicLink(ctx context.Context, token string) (VerifyResponse, error) {
	var out VerifyResponse
	path := "/v1/auth/verify?token=" + url.QueryEscape(token)
	err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK)
	return out, err
}

// ConsumeMagicLink redeems the token. Exactly one call per token succeeds;
// the response carries the session token for the rest of the flow.
func (c *Client) ConsumeMagicLink(ctx context.Context, token string) (VerifyResponse, error) {
	var out VerifyResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/verify", "",
		ConsumeMagicLinkRequest{Token: token}, &out, http.StatusOK)
	return out, err
}

// EvaluateOPRF submits a blinded point for evaluation under the server key.
func (c *Client) EvaluateOPRF(ctx context.Context, sessionToken, blindedPoint string) (string, error) {
	var out OPRFEvaluateResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/oprf/evaluate", "",
		OPRFEvaluateRequest{BlindedPoint: blindedPoint, SessionToken: sessionToken},
		&out, http.StatusOK)
	if err != nil {
		return "", err
	}
	return out.EvaluatedPoint, nil
}

// VerifyWallet proves ownership of a wallet address. The signature must be
// over keyderive.SigningMessage on the named chain.
func (c *Client) VerifyWallet(ctx context.Context, chain, address, signature string) (VerifyResponse, error) {
	var out VerifyResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/wallet/verify", "",
		VerifyWalletRequest{Chain: chain, Address: address, Signature: signature},
		&out, http.StatusOK)
	return out, err
}

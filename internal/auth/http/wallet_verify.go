package http

import (
	"errors"
	"net/http"

	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/httpx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

type WalletVerifyHandler struct {
	WalletService *service.WalletService
}

// ServeHTTP godoc
//
//	@Summary		Verify Wallet Signature Endpoint
//	@Description	Prove ownership of a wallet address with a signature over the standard signing message
//	@Description	A valid proof mints a session token bound to the wallet address
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyWalletRequest	true	"Chain, address and signature"
//	@Success		200		{object}	authsdk.VerifyResponse		"success, identityClaim, sessionToken"
//	@Failure		400		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/auth/wallet/verify [post].
func (h *WalletVerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.VerifyWalletRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.Chain == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "chain is required",
		})
		return
	}
	if req.Address == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "address is required",
		})
		return
	}
	if req.Signature == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "signature is required",
		})
		return
	}

	session, err := h.WalletService.Verify(ctx, req.Chain, req.Address, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedChain):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "unsupported_chain",
				ErrorDescription: "Chain is not supported",
			})
		case errors.Is(err, service.ErrInvalidAddress):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Address is malformed for the given chain",
			})
		case errors.Is(err, service.ErrInvalidSignature):
			// 401: the address is fine, the proof is not
			httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
				Error:            "invalid_signature",
				ErrorDescription: "Signature does not prove ownership of the address",
			})
		default:
			log.Error("wallet verification failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to verify wallet signature",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyResponse{
		Success:       true,
		IdentityClaim: session.Claim,
		SessionToken:  session.Token,
	})
}

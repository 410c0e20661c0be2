package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/httpx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

type VerifyHandler struct {
	MagicLinkService *service.MagicLinkService
}

// HandleGet godoc
//
//	@Summary		Peek Magic Link Token Endpoint
//	@Description	Check a magic link token without consuming it, so a UI can render a confirmation
//	@Description	page before the user commits. The token stays valid for a later POST
//	@Tags			Authentication
//	@Produce		json
//	@Param			token	query		string					true	"Magic link token"
//	@Success		200		{object}	authsdk.VerifyResponse	"success, identityClaim"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/verify [get].
func (h *VerifyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Token is required",
		})
		return
	}

	claim, err := h.MagicLinkService.Peek(ctx, token)
	if err != nil {
		h.writeVerifyError(w, ctx, err, "peek")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyResponse{
		Success:       true,
		IdentityClaim: claim,
	})
}

// HandlePost godoc
//
//	@Summary		Consume Magic Link Token Endpoint
//	@Description	Redeem a magic link token, burning it and minting a short-lived session token
//	@Description	Each token can be consumed exactly once
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ConsumeMagicLinkRequest	true	"Magic link token"
//	@Success		200		{object}	authsdk.VerifyResponse			"success, identityClaim, sessionToken"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/auth/verify [post].
func (h *VerifyHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.ConsumeMagicLinkRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Token is required",
		})
		return
	}

	session, err := h.MagicLinkService.Consume(ctx, req.Token)
	if err != nil {
		h.writeVerifyError(w, ctx, err, "consume")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyResponse{
		Success:       true,
		IdentityClaim: session.Claim,
		SessionToken:  session.Token,
	})
}

// writeVerifyError collapses every token failure to the same 401 so a
// probing client cannot distinguish expired from consumed from never-issued.
func (h *VerifyHandler) writeVerifyError(w http.ResponseWriter, ctx context.Context, err error, op string) {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "Invalid or expired token",
		})
	default:
		slogx.FromContext(ctx).Error("failed to verify magic link token", "op", op, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to verify token",
		})
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/httpx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

type MagicLinkRequestHandler struct {
	MagicLinkService *service.MagicLinkService
}

// ServeHTTP godoc
//
//	@Summary		Request Magic Link Endpoint
//	@Description	Request a single-use login link for the given email address
//	@Description	Always returns 202 for a well-formed address, whether or not an account exists
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RequestMagicLinkRequest	true	"Email address to send the link to"
//	@Success		202		{object}	authsdk.StatusResponse			"status"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		429		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/auth/magiclink [post].
func (h *MagicLinkRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RequestMagicLinkRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Email is required",
		})
		return
	}

	if err := h.MagicLinkService.Request(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Email address is not valid",
			})
		default:
			log.Error("failed to issue magic link", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to send magic link",
			})
		}
		return
	}

	// 202: the link is on its way, nothing about account existence leaks
	httpx.WriteJSON(w, http.StatusAccepted, authsdk.StatusResponse{Status: "sent"})
}

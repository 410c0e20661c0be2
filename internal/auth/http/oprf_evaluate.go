package http

import (
	"errors"
	"net/http"

	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/httpx"
	"github.com/cloakboard/molt-auth/pkg/oprf"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

type OPRFEvaluateHandler struct {
	OPRFService *service.OPRFService
}

// ServeHTTP godoc
//
//	@Summary		OPRF Evaluate Endpoint
//	@Description	Multiply a blinded curve point by the server's OPRF key
//	@Description	The session token rides in the body because clients hold it as flow data mid-derivation;
//	@Description	the server never learns what was blinded
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.OPRFEvaluateRequest		true	"Blinded point (compressed hex) and session token"
//	@Success		200		{object}	authsdk.OPRFEvaluateResponse	"ok, evaluatedPoint"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/auth/oprf/evaluate [post].
func (h *OPRFEvaluateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.OPRFEvaluateRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.BlindedPoint == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "blindedPoint is required",
		})
		return
	}
	if req.SessionToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "sessionToken is required",
		})
		return
	}

	evaluated, err := h.OPRFService.Evaluate(ctx, req.SessionToken, req.BlindedPoint)
	if err != nil {
		switch {
		case errors.Is(err, sessionx.ErrInvalidSession):
			httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
				Error:            "invalid_session",
				ErrorDescription: "Invalid or expired session",
			})
		case errors.Is(err, oprf.ErrInvalidPoint):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_point",
				ErrorDescription: "Blinded point is not a valid curve point",
			})
		default:
			log.Error("oprf evaluation failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to evaluate point",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.OPRFEvaluateResponse{
		OK:             true,
		EvaluatedPoint: evaluated,
	})
}

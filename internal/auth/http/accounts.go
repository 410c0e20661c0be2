package http

import (
	"errors"
	"net/http"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/pkg/authsdk"
	"github.com/cloakboard/molt-auth/pkg/httpx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

type AccountsHandler struct {
	AccountService *service.AccountService
}

// HandleRegister godoc
//
//	@Summary		Register Account Endpoint
//	@Description	Record the bearer session's identity claim in the account directory
//	@Description	The claim comes from the verified session, never from the request body
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.RegisterAccountRequest	false	"Optional method override"
//	@Success		200		{object}	authsdk.AccountResponse			"id, claimHash, method, createdAt, lastAuthAt"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.SessionFromContext(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
			Error:            "invalid_session",
			ErrorDescription: "Invalid or expired session",
		})
		return
	}

	// Body is optional; an empty method falls back to the session's
	var req authsdk.RegisterAccountRequest
	if r.ContentLength > 0 {
		if err := httpx.ReadJSON(w, r, &req); err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Invalid JSON body",
			})
			return
		}
	}
	method := req.Method
	if method == "" {
		method = claims.Method
	}

	account, err := h.AccountService.Register(ctx, claims.Claim, method)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClaim):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Claim or method is missing",
			})
		default:
			log.Error("failed to register account", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to register account",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountResponse(account))
}

// HandleLookup godoc
//
//	@Summary		Lookup Account Endpoint
//	@Description	Answer whether a claim hash is registered, so a client can route to signup or login
//	@Description	An unknown hash is a normal answer, not an error
//	@Tags			Accounts
//	@Produce		json
//	@Param			claim_hash	path		string							true	"Hex SHA-256 of the normalized claim"
//	@Success		200			{object}	authsdk.LookupAccountResponse	"registered, method"
//	@Failure		400			{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500			{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/accounts/{claim_hash} [get].
func (h *AccountsHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claimHash := r.PathValue("claim_hash")
	if claimHash == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "claim_hash is required",
		})
		return
	}

	account, err := h.AccountService.Lookup(ctx, claimHash)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			httpx.WriteJSON(w, http.StatusOK, authsdk.LookupAccountResponse{Registered: false})
		default:
			log.Error("failed to look up account", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to look up account",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LookupAccountResponse{
		Registered: true,
		Method:     account.Method,
	})
}

// HandleLink godoc
//
//	@Summary		Link Account Endpoint
//	@Description	Bind a second auth method's claim to the bearer session's account
//	@Description	Used after a wallet login to join the wallet onto an existing email account
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body	authsdk.LinkAccountRequest	true	"Claim and method to link"
//	@Success		204		"linked"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/accounts/link [post].
func (h *AccountsHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.SessionFromContext(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
			Error:            "invalid_session",
			ErrorDescription: "Invalid or expired session",
		})
		return
	}

	var req authsdk.LinkAccountRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Claim == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "claim is required",
		})
		return
	}
	if req.Method == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "method is required",
		})
		return
	}

	err := h.AccountService.Link(ctx, claims.Claim, claims.Method, req.Claim, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClaim):
			httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Claim or method is missing",
			})
		default:
			log.Error("failed to link account", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to link account",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func accountResponse(a domain.Account) authsdk.AccountResponse {
	resp := authsdk.AccountResponse{
		ID:         a.ID,
		ClaimHash:  a.ClaimHash,
		Method:     a.Method,
		CreatedAt:  a.CreatedAt,
		LastAuthAt: a.LastAuthAt,
	}
	if a.LinkedID != nil {
		resp.LinkedID = *a.LinkedID
	}
	return resp
}

package identity

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/queple/queple-server/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for identity flows.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

// Check handles POST /v1/auth/check
func (h *HTTPHandlers) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req struct {
		UID string `json:"uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Missing UID")
		return
	}

	user, exists, err := h.svc.Check(r.Context(), req.UID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user check failed")
		httperrors.RespondInternalError(w, "Internal Server Error")
		return
	}

	if !exists {
		h.respondJSON(w, http.StatusOK, map[string]interface{}{"exists": false})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"exists": true, "user": user})
}

// Create handles POST /v1/auth/create
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.ExternalUID == "" || req.Email == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Missing required fields")
		return
	}

	user, token, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("user creation failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeCreateFailed, "Internal Server Error")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

// Sync handles POST /v1/auth/sync
func (h *HTTPHandlers) Sync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.ExternalUID == "" || req.Email == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Missing fields")
		return
	}

	user, token, err := h.svc.Sync(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("user sync failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSyncFailed, "Internal Server Error")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

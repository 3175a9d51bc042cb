package reaction

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/queple/queple-server/internal/identity"
	httperrors "github.com/queple/queple-server/pkg/http/errors"
)

// HTTPHandlers provides the reaction-recording endpoint.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

type reactPayload struct {
	QuestionID string  `json:"questionId"`
	Reaction   string  `json:"reaction"`
	TimeSpent  float64 `json:"timeSpent"`
	UserID     string  `json:"userId"`
}

// React handles POST /v1/questions/react
func (h *HTTPHandlers) React(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var payload reactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if payload.QuestionID == "" || payload.Reaction == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Missing fields")
		return
	}
	if !Valid(payload.Reaction) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, "Unknown reaction")
		return
	}

	result := h.svc.Record(r.Context(), RecordRequest{
		QuestionID:  payload.QuestionID,
		Reaction:    payload.Reaction,
		TimeSpent:   payload.TimeSpent,
		UserID:      firstNonEmpty(payload.UserID, identity.UserIDFrom(r.Context())),
		ExternalUID: identity.ExternalUIDFrom(r.Context()),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

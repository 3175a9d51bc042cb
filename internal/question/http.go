package question

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/queple/queple-server/internal/identity"
	httperrors "github.com/queple/queple-server/pkg/http/errors"
)

// TextGenerator is the raw prompt passthrough (implemented by ai.Client).
type TextGenerator interface {
	Enabled() bool
	GenerateText(ctx context.Context, userPrompt, systemPrompt string) (string, error)
}

// HTTPHandlers provides REST endpoints for deck and question flows.
type HTTPHandlers struct {
	svc    *Service
	text   TextGenerator
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, text TextGenerator, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, text: text, logger: logger}
}

type deckPayload struct {
	UserID      string   `json:"userId"`
	FirebaseUID string   `json:"firebaseUid"`
	Mode        string   `json:"mode"`
	MinLevel    int      `json:"minLevel"`
	MaxLevel    int      `json:"maxLevel"`
	Allow18Plus bool     `json:"allow18Plus"`
	Category    string   `json:"category"`
	ExcludeIDs  []string `json:"excludeIds"`
}

// Deck handles POST /v1/question
func (h *HTTPHandlers) Deck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var payload deckPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	req := DeckRequest{
		UserID:      payload.UserID,
		ExternalUID: payload.FirebaseUID,
		Mode:        payload.Mode,
		MinLevel:    payload.MinLevel,
		MaxLevel:    payload.MaxLevel,
		Allow18Plus: payload.Allow18Plus,
		CategoryID:  payload.Category,
		ExcludeIDs:  payload.ExcludeIDs,
	}
	if req.UserID == "" {
		req.UserID = identity.UserIDFrom(r.Context())
	}
	if req.ExternalUID == "" {
		req.ExternalUID = identity.ExternalUIDFrom(r.Context())
	}

	deck, err := h.svc.AssembleDeck(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("deck assembly failed")
		httperrors.RespondInternalError(w, "Internal Server Error")
		return
	}
	if deck == nil {
		deck = []Question{}
	}
	h.respondJSON(w, http.StatusOK, deck)
}

// Next handles GET /v1/questions/next
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	q, err := h.svc.NextQuestion(r.Context(), identity.UserIDFrom(r.Context()), identity.ExternalUIDFrom(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("next question lookup failed")
		httperrors.RespondInternalError(w, "Internal Server Error")
		return
	}
	h.respondJSON(w, http.StatusOK, q)
}

// Create handles POST /v1/questions
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
	if req.Content == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Content is required")
		return
	}
	if req.CreatorID == "" {
		req.CreatorID = identity.UserIDFrom(r.Context())
	}

	q, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("question creation failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeQuestionCreateFailed, "Internal Server Error")
		return
	}
	h.respondJSON(w, http.StatusOK, q)
}

// Recommendations handles POST /v1/recommendations
func (h *HTTPHandlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	req.UserID = identity.UserIDFrom(r.Context())

	resp, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("recommendation failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeRecommendationFailed, "Internal Server Error")
		return
	}
	if resp.Questions == nil {
		resp.Questions = []Question{}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Generate handles POST /v1/generate
func (h *HTTPHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}
	if h.text == nil || !h.text.Enabled() {
		h.logger.Error().Msg("text generation requested but no API key configured")
		httperrors.RespondInternalError(w, "Server configuration error")
		return
	}

	var req struct {
		UserPrompt   string `json:"userPrompt"`
		SystemPrompt string `json:"systemPrompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserPrompt == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "userPrompt is required")
		return
	}

	text, err := h.text.GenerateText(r.Context(), req.UserPrompt, req.SystemPrompt)
	if err != nil {
		h.logger.Error().Err(err).Msg("text generation failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "Upstream generation error")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

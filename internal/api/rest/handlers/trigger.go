package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/api/rest/middleware"
	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// TriggerHandler accepts reported business events and routes them through
// the matching pipeline
type TriggerHandler struct {
	logger *logger.Logger
	router *engine.TriggerRouter
}

// NewTriggerHandler creates a new trigger handler
func NewTriggerHandler(log *logger.Logger, router *engine.TriggerRouter) *TriggerHandler {
	return &TriggerHandler{
		logger: log,
		router: router,
	}
}

// TriggerEventRequest is the body of POST /api/v1/triggers/{channel}.
// TriggerType may be empty: every active automation on the channel then
// decides its own applicability.
type TriggerEventRequest struct {
	TriggerType string                 `json:"trigger_type,omitempty"`
	ContactID   uuid.UUID              `json:"contact_id" validate:"required"`
	CampaignID  *uuid.UUID             `json:"campaign_id,omitempty"`
	Payload     map[string]interface{} `json:"payload"`
}

// TriggerEventResponse reports what the event matched and what happened
type TriggerEventResponse struct {
	Matched int                  `json:"matched"`
	Results []engine.MatchResult `json:"results"`
}

// HandleTrigger handles POST /api/v1/triggers/{channel}
func (h *TriggerHandler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	channelStr := chi.URLParam(r, "channel")
	if !models.IsValidChannel(channelStr) {
		http.Error(w, "Unknown channel", http.StatusBadRequest)
		return
	}
	channel := models.Channel(channelStr)

	var req TriggerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Errorf("Failed to decode trigger request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ContactID == uuid.Nil {
		http.Error(w, "contact_id is required", http.StatusBadRequest)
		return
	}
	if req.TriggerType != "" && !models.IsValidTriggerType(channel, req.TriggerType) {
		http.Error(w, "Unknown trigger_type for channel", http.StatusBadRequest)
		return
	}

	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	event := &models.TriggerEvent{
		Channel:     channel,
		TriggerType: req.TriggerType,
		ContactID:   req.ContactID,
		CampaignID:  req.CampaignID,
		Payload:     req.Payload,
	}

	results, err := h.router.Route(r.Context(), owner, event)
	if err != nil {
		h.logger.Errorf("Failed to route trigger event: %v", err)
		http.Error(w, "Failed to process event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(TriggerEventResponse{
		Matched: len(results),
		Results: results,
	})
}

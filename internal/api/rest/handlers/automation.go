package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/api/rest/middleware"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
	"github.com/ronittamrakar/Xordon-sub011/pkg/validator"
)

// AutomationStore is what the automation handler needs from persistence
type AutomationStore interface {
	Create(ctx context.Context, automation *models.Automation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Automation, error)
	ListActiveAutomations(ctx context.Context, owner models.OwnerScope, channel models.Channel, triggerType string) ([]*models.Automation, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// AutomationHandler handles automation management requests
type AutomationHandler struct {
	logger *logger.Logger
	store  AutomationStore
}

// NewAutomationHandler creates a new automation handler
func NewAutomationHandler(log *logger.Logger, store AutomationStore) *AutomationHandler {
	return &AutomationHandler{
		logger: log,
		store:  store,
	}
}

// CreateAutomationRequest is the body of POST /api/v1/automations
type CreateAutomationRequest struct {
	Name              string       `json:"name" validate:"required,max=255"`
	Channel           string       `json:"channel" validate:"required"`
	TriggerType       string       `json:"trigger_type" validate:"required"`
	TriggerConditions models.JSONB `json:"trigger_conditions,omitempty"`
	ActionType        string       `json:"action_type" validate:"required"`
	ActionConfig      models.JSONB `json:"action_config,omitempty"`
	DelayAmount       int          `json:"delay_amount" validate:"gte=0"`
	DelayUnit         string       `json:"delay_unit,omitempty"`
	Priority          int          `json:"priority"`
	CampaignID        *uuid.UUID   `json:"campaign_id,omitempty"`
}

// Create handles POST /api/v1/automations
func (h *AutomationHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validator.Validate(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidChannel(req.Channel) {
		http.Error(w, "Unknown channel", http.StatusBadRequest)
		return
	}
	channel := models.Channel(req.Channel)
	if !models.IsValidTriggerType(channel, req.TriggerType) {
		http.Error(w, "Unknown trigger_type for channel", http.StatusBadRequest)
		return
	}
	if !models.IsValidActionType(req.ActionType) {
		http.Error(w, "Unknown action_type", http.StatusBadRequest)
		return
	}

	delayUnit := models.DelayUnit(req.DelayUnit)
	if delayUnit == "" {
		delayUnit = models.DelayMinutes
	}

	automation := &models.Automation{
		UserID:            owner.UserID,
		WorkspaceID:       owner.WorkspaceID,
		Name:              req.Name,
		Channel:           channel,
		TriggerType:       req.TriggerType,
		TriggerConditions: req.TriggerConditions,
		ActionType:        req.ActionType,
		ActionConfig:      req.ActionConfig,
		DelayAmount:       req.DelayAmount,
		DelayUnit:         delayUnit,
		IsActive:          true,
		Priority:          req.Priority,
		CampaignID:        req.CampaignID,
	}

	if err := h.store.Create(r.Context(), automation); err != nil {
		h.logger.Errorf("Failed to create automation: %v", err)
		http.Error(w, "Failed to create automation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(automation)
}

// Get handles GET /api/v1/automations/{id}
func (h *AutomationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid automation ID", http.StatusBadRequest)
		return
	}

	automation, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Automation not found", http.StatusNotFound)
		return
	}

	if !ownedBy(automation, r) {
		http.Error(w, "Automation not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(automation)
}

// List handles GET /api/v1/automations?channel=call&trigger_type=call_answered
func (h *AutomationHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	channelStr := r.URL.Query().Get("channel")
	if channelStr == "" {
		http.Error(w, "channel query parameter is required", http.StatusBadRequest)
		return
	}
	if !models.IsValidChannel(channelStr) {
		http.Error(w, "Unknown channel", http.StatusBadRequest)
		return
	}

	automations, err := h.store.ListActiveAutomations(r.Context(), owner,
		models.Channel(channelStr), r.URL.Query().Get("trigger_type"))
	if err != nil {
		h.logger.Errorf("Failed to list automations: %v", err)
		http.Error(w, "Failed to retrieve automations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"automations": automations,
		"total":       len(automations),
	})
}

// Enable handles POST /api/v1/automations/{id}/enable
func (h *AutomationHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Disable handles POST /api/v1/automations/{id}/disable
func (h *AutomationHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AutomationHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid automation ID", http.StatusBadRequest)
		return
	}

	automation, err := h.store.GetByID(r.Context(), id)
	if err != nil || !ownedBy(automation, r) {
		http.Error(w, "Automation not found", http.StatusNotFound)
		return
	}

	if err := h.store.SetActive(r.Context(), id, active); err != nil {
		h.logger.Errorf("Failed to toggle automation: %v", err)
		http.Error(w, "Failed to update automation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"is_active": active})
}

// ownedBy reports whether the request's caller owns the automation
func ownedBy(automation *models.Automation, r *http.Request) bool {
	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		return false
	}
	if owner.WorkspaceID != nil && automation.WorkspaceID != nil {
		return *owner.WorkspaceID == *automation.WorkspaceID
	}
	return automation.UserID == owner.UserID
}

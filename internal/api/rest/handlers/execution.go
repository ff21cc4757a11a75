package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// ExecutionStore is what the execution handler needs from persistence
type ExecutionStore interface {
	GetExecutionByID(ctx context.Context, id uuid.UUID) (*models.AutomationExecution, error)
	ListExecutions(ctx context.Context, automationID *uuid.UUID, limit, offset int) ([]models.AutomationExecution, int64, error)
}

// ExecutionHandler handles execution audit trail requests
type ExecutionHandler struct {
	logger *logger.Logger
	store  ExecutionStore
}

// NewExecutionHandler creates a new execution handler
func NewExecutionHandler(log *logger.Logger, store ExecutionStore) *ExecutionHandler {
	return &ExecutionHandler{
		logger: log,
		store:  store,
	}
}

// ListExecutions handles GET /api/v1/executions
func (h *ExecutionHandler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	var automationID *uuid.UUID
	if idStr := r.URL.Query().Get("automation_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "Invalid automation_id", http.StatusBadRequest)
			return
		}
		automationID = &id
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	executions, total, err := h.store.ListExecutions(r.Context(), automationID, limit, offset)
	if err != nil {
		h.logger.Errorf("Failed to list executions: %v", err)
		http.Error(w, "Failed to retrieve executions", http.StatusInternalServerError)
		return
	}

	response := models.ExecutionListResponse{
		Executions: executions,
		Total:      total,
		Page:       offset / limit,
		PageSize:   limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetExecution handles GET /api/v1/executions/{id}
func (h *ExecutionHandler) GetExecution(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid execution ID", http.StatusBadRequest)
		return
	}

	execution, err := h.store.GetExecutionByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Execution not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(execution)
}

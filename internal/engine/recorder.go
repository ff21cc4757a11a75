package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// ExecutionStore persists automation execution records
type ExecutionStore interface {
	CreateExecution(ctx context.Context, execution *models.AutomationExecution) error
	UpdateExecution(ctx context.Context, execution *models.AutomationExecution) error
	GetExecutionByID(ctx context.Context, id uuid.UUID) (*models.AutomationExecution, error)
}

// ExecutionRecorder writes the audit trail of automation matches. Every match
// produces exactly one Create; immediate executions get exactly one Complete
// afterwards, delayed ones are completed by the queue consumer.
type ExecutionRecorder struct {
	store ExecutionStore
}

// NewExecutionRecorder creates a recorder over the given store
func NewExecutionRecorder(store ExecutionStore) *ExecutionRecorder {
	return &ExecutionRecorder{store: store}
}

// Create writes a new execution record and returns it. TriggerData carries
// the event payload plus any derived classification fields.
func (r *ExecutionRecorder) Create(
	ctx context.Context,
	automation *models.Automation,
	contactID uuid.UUID,
	triggerType string,
	triggerData map[string]interface{},
	reason *models.TriggerReason,
	confidence *float64,
	status models.ExecutionStatus,
	scheduledAt time.Time,
) (*models.AutomationExecution, error) {
	execution := &models.AutomationExecution{
		ID:                uuid.New(),
		AutomationID:      automation.ID,
		ContactID:         contactID,
		TriggerEvent:      triggerType,
		TriggerData:       triggerData,
		TriggerReason:     reason,
		MatchedConfidence: confidence,
		Status:            status,
		ScheduledAt:       scheduledAt,
		CreatedAt:         time.Now().UTC(),
	}

	if err := r.store.CreateExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}
	return execution, nil
}

// Complete moves an execution to a terminal status with its action outcome.
// The write is separate from Create so a crash in between leaves a visible
// pending row for the recovery sweep rather than losing the record.
func (r *ExecutionRecorder) Complete(
	ctx context.Context,
	execution *models.AutomationExecution,
	status models.ExecutionStatus,
	actionResult map[string]interface{},
	errorMessage string,
) error {
	now := time.Now().UTC()
	execution.Status = status
	execution.ExecutedAt = &now
	execution.ActionResult = actionResult
	if errorMessage != "" {
		execution.ErrorMessage = &errorMessage
	}

	if err := r.store.UpdateExecution(ctx, execution); err != nil {
		return fmt.Errorf("failed to complete execution record: %w", err)
	}
	return nil
}

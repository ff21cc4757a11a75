package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// nullTriggerReason scans a nullable trigger_reason column into a pointer
type nullTriggerReason struct {
	Reason *models.TriggerReason
}

func (n *nullTriggerReason) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	reason := &models.TriggerReason{}
	if err := json.Unmarshal(bytes, reason); err != nil {
		return err
	}
	n.Reason = reason
	return nil
}

// ExecutionRepository handles execution database operations
type ExecutionRepository struct {
	db DB
}

// NewExecutionRepository creates a new execution repository
func NewExecutionRepository(db DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// CreateExecution writes the audit record for one match
func (r *ExecutionRepository) CreateExecution(ctx context.Context, execution *models.AutomationExecution) error {
	query := `
		INSERT INTO automation_executions (
			id, automation_id, contact_id, trigger_event, trigger_data,
			trigger_reason, matched_confidence, status, scheduled_at,
			executed_at, action_result, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	if execution.ID == uuid.Nil {
		execution.ID = uuid.New()
	}

	err := r.db.QueryRowContext(
		ctx, query,
		execution.ID, execution.AutomationID, execution.ContactID,
		execution.TriggerEvent, execution.TriggerData, execution.TriggerReason,
		execution.MatchedConfidence, execution.Status, execution.ScheduledAt,
		execution.ExecutedAt, execution.ActionResult, execution.ErrorMessage,
	).Scan(&execution.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}
	return nil
}

// UpdateExecution persists the completion of an execution
func (r *ExecutionRepository) UpdateExecution(ctx context.Context, execution *models.AutomationExecution) error {
	query := `
		UPDATE automation_executions
		SET status = $2, executed_at = $3, action_result = $4, error_message = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(
		ctx, query,
		execution.ID, execution.Status, execution.ExecutedAt,
		execution.ActionResult, execution.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to update execution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("execution not found")
	}
	return nil
}

// GetExecutionByID retrieves an execution by ID
func (r *ExecutionRepository) GetExecutionByID(ctx context.Context, id uuid.UUID) (*models.AutomationExecution, error) {
	execution := &models.AutomationExecution{}
	query := `
		SELECT id, automation_id, contact_id, trigger_event, trigger_data,
		       trigger_reason, matched_confidence, status, scheduled_at,
		       executed_at, action_result, error_message, created_at
		FROM automation_executions
		WHERE id = $1`

	var reason nullTriggerReason
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&execution.ID, &execution.AutomationID, &execution.ContactID,
		&execution.TriggerEvent, &execution.TriggerData, &reason,
		&execution.MatchedConfidence, &execution.Status, &execution.ScheduledAt,
		&execution.ExecutedAt, &execution.ActionResult, &execution.ErrorMessage,
		&execution.CreatedAt,
	)
	execution.TriggerReason = reason.Reason

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("execution not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return execution, nil
}

// ListExecutions returns executions newest-first, optionally filtered by
// automation, with the total count for pagination
func (r *ExecutionRepository) ListExecutions(ctx context.Context, automationID *uuid.UUID, limit, offset int) ([]models.AutomationExecution, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM automation_executions
		WHERE ($1::uuid IS NULL OR automation_id = $1)`

	if err := r.db.QueryRowContext(ctx, countQuery, automationID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count executions: %w", err)
	}

	query := `
		SELECT id, automation_id, contact_id, trigger_event, trigger_data,
		       trigger_reason, matched_confidence, status, scheduled_at,
		       executed_at, action_result, error_message, created_at
		FROM automation_executions
		WHERE ($1::uuid IS NULL OR automation_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, automationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	executions, err := scanExecutions(rows)
	if err != nil {
		return nil, 0, err
	}
	return executions, total, nil
}

// ListOverdueScheduled returns scheduled executions whose scheduled_at has
// passed the cutoff, oldest first, for the recovery sweep
func (r *ExecutionRepository) ListOverdueScheduled(ctx context.Context, olderThan time.Time, limit int) ([]models.AutomationExecution, error) {
	query := `
		SELECT id, automation_id, contact_id, trigger_event, trigger_data,
		       trigger_reason, matched_confidence, status, scheduled_at,
		       executed_at, action_result, error_message, created_at
		FROM automation_executions
		WHERE status = 'scheduled' AND scheduled_at < $1
		ORDER BY scheduled_at ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue executions: %w", err)
	}
	defer rows.Close()

	return scanExecutions(rows)
}

func scanExecutions(rows *sql.Rows) ([]models.AutomationExecution, error) {
	executions := make([]models.AutomationExecution, 0)
	for rows.Next() {
		var execution models.AutomationExecution
		var reason nullTriggerReason
		err := rows.Scan(
			&execution.ID, &execution.AutomationID, &execution.ContactID,
			&execution.TriggerEvent, &execution.TriggerData, &reason,
			&execution.MatchedConfidence, &execution.Status, &execution.ScheduledAt,
			&execution.ExecutedAt, &execution.ActionResult, &execution.ErrorMessage,
			&execution.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		execution.TriggerReason = reason.Reason
		executions = append(executions, execution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate executions: %w", err)
	}
	return executions, nil
}

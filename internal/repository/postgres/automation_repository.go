package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// AutomationRepository handles automation database operations
type AutomationRepository struct {
	db DB
}

// NewAutomationRepository creates a new automation repository
func NewAutomationRepository(db DB) *AutomationRepository {
	return &AutomationRepository{db: db}
}

// Create creates a new automation
func (r *AutomationRepository) Create(ctx context.Context, automation *models.Automation) error {
	query := `
		INSERT INTO automations (
			id, user_id, workspace_id, name, channel, trigger_type,
			trigger_conditions, action_type, action_config, delay_amount,
			delay_unit, is_active, priority, campaign_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	if automation.ID == uuid.Nil {
		automation.ID = uuid.New()
	}

	err := r.db.QueryRowContext(
		ctx, query,
		automation.ID, automation.UserID, automation.WorkspaceID,
		automation.Name, automation.Channel, automation.TriggerType,
		automation.TriggerConditions, automation.ActionType, automation.ActionConfig,
		automation.DelayAmount, automation.DelayUnit, automation.IsActive,
		automation.Priority, automation.CampaignID,
	).Scan(&automation.CreatedAt, &automation.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create automation: %w", err)
	}
	return nil
}

// GetByID retrieves an automation by ID
func (r *AutomationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Automation, error) {
	automation := &models.Automation{}
	query := `
		SELECT id, user_id, workspace_id, name, channel, trigger_type,
		       trigger_conditions, action_type, action_config, delay_amount,
		       delay_unit, is_active, priority, campaign_id, created_at, updated_at
		FROM automations
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&automation.ID, &automation.UserID, &automation.WorkspaceID,
		&automation.Name, &automation.Channel, &automation.TriggerType,
		&automation.TriggerConditions, &automation.ActionType, &automation.ActionConfig,
		&automation.DelayAmount, &automation.DelayUnit, &automation.IsActive,
		&automation.Priority, &automation.CampaignID,
		&automation.CreatedAt, &automation.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("automation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get automation: %w", err)
	}
	return automation, nil
}

// ListActiveAutomations loads the routing candidates for an event: active
// automations on the channel, owned by the given scope, filtered by trigger
// type when one is given. Ordering is part of the contract: priority
// descending, ties broken by most recently created first.
func (r *AutomationRepository) ListActiveAutomations(ctx context.Context, owner models.OwnerScope, channel models.Channel, triggerType string) ([]*models.Automation, error) {
	query := `
		SELECT id, user_id, workspace_id, name, channel, trigger_type,
		       trigger_conditions, action_type, action_config, delay_amount,
		       delay_unit, is_active, priority, campaign_id, created_at, updated_at
		FROM automations
		WHERE is_active = true
		  AND channel = $1
		  AND (
		        (workspace_id IS NOT NULL AND workspace_id = $2)
		     OR (workspace_id IS NULL AND user_id = $3)
		  )
		  AND ($4 = '' OR trigger_type = $4)
		ORDER BY priority DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, channel, owner.WorkspaceID, owner.UserID, triggerType)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}
	defer rows.Close()

	automations := make([]*models.Automation, 0)
	for rows.Next() {
		automation := &models.Automation{}
		err := rows.Scan(
			&automation.ID, &automation.UserID, &automation.WorkspaceID,
			&automation.Name, &automation.Channel, &automation.TriggerType,
			&automation.TriggerConditions, &automation.ActionType, &automation.ActionConfig,
			&automation.DelayAmount, &automation.DelayUnit, &automation.IsActive,
			&automation.Priority, &automation.CampaignID,
			&automation.CreatedAt, &automation.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan automation: %w", err)
		}
		automations = append(automations, automation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate automations: %w", err)
	}

	return automations, nil
}

// SetActive toggles an automation's active flag
func (r *AutomationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE automations SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("failed to toggle automation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("automation not found")
	}
	return nil
}

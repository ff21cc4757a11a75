package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// TemplateRepository handles message template and sending account lookups
type TemplateRepository struct {
	db DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetTemplateByID retrieves a message template by ID
func (r *TemplateRepository) GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error) {
	template := &models.MessageTemplate{}
	query := `
		SELECT id, user_id, name, channel, subject, body, created_at
		FROM message_templates
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID, &template.UserID, &template.Name, &template.Channel,
		&template.Subject, &template.Body, &template.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// GetActiveSendingAccount returns the owner's active outbound identity for a
// channel. Workspace-scoped automations share any account owned by a
// workspace member, so the lookup goes through the owning user.
func (r *TemplateRepository) GetActiveSendingAccount(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error) {
	account := &models.SendingAccount{}
	query := `
		SELECT id, user_id, channel, from_name, from_address,
		       COALESCE(smtp_host, ''), COALESCE(smtp_port, 0),
		       COALESCE(smtp_user, ''), COALESCE(smtp_password, ''), is_active
		FROM sending_accounts
		WHERE user_id = $1 AND channel = $2 AND is_active = true
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRowContext(ctx, query, owner.UserID, channel).Scan(
		&account.ID, &account.UserID, &account.Channel,
		&account.FromName, &account.FromAddress,
		&account.SMTPHost, &account.SMTPPort,
		&account.SMTPUser, &account.SMTPPassword, &account.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no active sending account for channel %s", channel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sending account: %w", err)
	}
	return account, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// ContactRepository handles contact database operations
type ContactRepository struct {
	db DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// GetContactByID retrieves a contact by ID
func (r *ContactRepository) GetContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	contact := &models.Contact{}
	query := `
		SELECT id, user_id, first_name, last_name, email, phone, company,
		       status, created_at, updated_at
		FROM contacts
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contact.ID, &contact.UserID, &contact.FirstName, &contact.LastName,
		&contact.Email, &contact.Phone, &contact.Company, &contact.Status,
		&contact.CreatedAt, &contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contact not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// UpdateContactStatus sets a contact's pipeline status
func (r *ContactRepository) UpdateContactStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found")
	}
	return nil
}

// AddTag attaches a tag to a contact. Re-adding an existing tag is a no-op so
// redelivered tasks stay idempotent.
func (r *ContactRepository) AddTag(ctx context.Context, contactID, tagID uuid.UUID) error {
	query := `
		INSERT INTO contact_tags (contact_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (contact_id, tag_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, contactID, tagID); err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// RemoveTag detaches a tag from a contact. Removing an absent tag is a no-op.
func (r *ContactRepository) RemoveTag(ctx context.Context, contactID, tagID uuid.UUID) error {
	query := `DELETE FROM contact_tags WHERE contact_id = $1 AND tag_id = $2`

	if _, err := r.db.ExecContext(ctx, query, contactID, tagID); err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	return nil
}

// AddCampaignRecipient enrolls a contact in a campaign. Re-enrolling is a
// no-op.
func (r *ContactRepository) AddCampaignRecipient(ctx context.Context, campaignID, contactID uuid.UUID) error {
	query := `
		INSERT INTO campaign_recipients (campaign_id, contact_id)
		VALUES ($1, $2)
		ON CONFLICT (campaign_id, contact_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, campaignID, contactID); err != nil {
		return fmt.Errorf("failed to add campaign recipient: %w", err)
	}
	return nil
}

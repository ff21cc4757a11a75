package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is the person a follow-up action targets
type Contact struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Company   string    `json:"company" db:"company"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}

// MessageTemplate is a reusable email/SMS body with {{variable}} placeholders
type MessageTemplate struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Channel   Channel   `json:"channel" db:"channel"`
	Subject   string    `json:"subject" db:"subject"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SendingAccount is a configured outbound identity (SMTP mailbox or SMS
// number) an action sends from
type SendingAccount struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Channel      Channel   `json:"channel" db:"channel"`
	FromName     string    `json:"from_name" db:"from_name"`
	FromAddress  string    `json:"from_address" db:"from_address"`
	SMTPHost     string    `json:"smtp_host,omitempty" db:"smtp_host"`
	SMTPPort     int       `json:"smtp_port,omitempty" db:"smtp_port"`
	SMTPUser     string    `json:"-" db:"smtp_user"`
	SMTPPassword string    `json:"-" db:"smtp_password"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus represents the lifecycle state of an automation execution
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusScheduled ExecutionStatus = "scheduled"
	ExecutionStatusExecuted  ExecutionStatus = "executed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// IsTerminal reports whether the status is a terminal state
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionStatusExecuted || s == ExecutionStatusFailed
}

// TriggerReason is the structured explanation of why an automation matched:
// the kind of match, what the automation expected, what the event carried, and
// the classifier confidence when one was involved.
type TriggerReason struct {
	MatchKind  string   `json:"match_kind"`
	Expected   string   `json:"expected,omitempty"`
	Actual     string   `json:"actual,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}

// Scan implements sql.Scanner for TriggerReason
func (r *TriggerReason) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// Value implements driver.Valuer for TriggerReason
func (r TriggerReason) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// AutomationExecution is the audit record of one (automation, event) match.
// It is created exactly once per match and mutated exactly once more when an
// immediate action completes; delayed executions stay scheduled until the
// queue consumer progresses them.
type AutomationExecution struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	AutomationID      uuid.UUID       `json:"automation_id" db:"automation_id"`
	ContactID         uuid.UUID       `json:"contact_id" db:"contact_id"`
	TriggerEvent      string          `json:"trigger_event" db:"trigger_event"`
	TriggerData       JSONB           `json:"trigger_data" db:"trigger_data"`
	TriggerReason     *TriggerReason  `json:"trigger_reason,omitempty" db:"trigger_reason"`
	MatchedConfidence *float64        `json:"matched_confidence,omitempty" db:"matched_confidence"`
	Status            ExecutionStatus `json:"status" db:"status"`
	ScheduledAt       time.Time       `json:"scheduled_at" db:"scheduled_at"`
	ExecutedAt        *time.Time      `json:"executed_at,omitempty" db:"executed_at"`
	ActionResult      JSONB           `json:"action_result,omitempty" db:"action_result"`
	ErrorMessage      *string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// ExecutionListResponse is a paginated list of executions
type ExecutionListResponse struct {
	Executions []AutomationExecution `json:"executions"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
}

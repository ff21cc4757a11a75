package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// AutomationDefinition is the on-disk form of an automation, as written by
// hand or exported from the API.
type AutomationDefinition struct {
	Name              string       `json:"name"`
	Channel           string       `json:"channel"`
	TriggerType       string       `json:"trigger_type"`
	TriggerConditions models.JSONB `json:"trigger_conditions,omitempty"`
	ActionType        string       `json:"action_type"`
	ActionConfig      models.JSONB `json:"action_config,omitempty"`
	DelayAmount       int          `json:"delay_amount"`
	DelayUnit         string       `json:"delay_unit,omitempty"`
	Priority          int          `json:"priority"`
	CampaignID        *uuid.UUID   `json:"campaign_id,omitempty"`
}

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// LoadAutomationFromFile reads an automation definition from a JSON file
func LoadAutomationFromFile(filename string) (*AutomationDefinition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var def AutomationDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse automation: %w", err)
	}
	return &def, nil
}

// ValidateAutomationFile validates an automation definition from a file
func ValidateAutomationFile(filename string) (*ValidationResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var def AutomationDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Invalid JSON: %v", err)},
		}, nil
	}

	return ValidateAutomation(&def), nil
}

// ValidateAutomation checks an automation definition against the same rules
// the API applies on create.
func ValidateAutomation(def *AutomationDefinition) *ValidationResult {
	result := &ValidationResult{Valid: true, Errors: []string{}}

	fail := func(format string, args ...interface{}) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	if def.Name == "" {
		fail("name is required")
	}
	if len(def.Name) > 255 {
		fail("name must be at most 255 characters")
	}

	if def.Channel == "" {
		fail("channel is required")
	} else if !models.IsValidChannel(def.Channel) {
		fail("invalid channel: %s", def.Channel)
	}

	if def.TriggerType == "" {
		fail("trigger_type is required")
	} else if models.IsValidChannel(def.Channel) &&
		!models.IsValidTriggerType(models.Channel(def.Channel), def.TriggerType) {
		fail("invalid trigger_type %q for channel %s", def.TriggerType, def.Channel)
	}

	if def.ActionType == "" {
		fail("action_type is required")
	} else if !models.IsValidActionType(def.ActionType) {
		fail("invalid action_type: %s", def.ActionType)
	}

	if def.DelayAmount < 0 {
		fail("delay_amount must not be negative")
	}

	switch models.DelayUnit(def.DelayUnit) {
	case "", models.DelayMinutes, models.DelayHours, models.DelayDays:
	default:
		fail("invalid delay_unit: %s (want minutes, hours or days)", def.DelayUnit)
	}

	return result
}

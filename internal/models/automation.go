package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel represents the communication surface an automation listens on
type Channel string

const (
	ChannelEmail       Channel = "email"
	ChannelSMS         Channel = "sms"
	ChannelCall        Channel = "call"
	ChannelForm        Channel = "form"
	ChannelWhatsApp    Channel = "whatsapp"
	ChannelMessenger   Channel = "messenger"
	ChannelLinkedIn    Channel = "linkedin"
	ChannelAppointment Channel = "appointment"
)

// Channels lists every supported channel
var Channels = []Channel{
	ChannelEmail, ChannelSMS, ChannelCall, ChannelForm,
	ChannelWhatsApp, ChannelMessenger, ChannelLinkedIn, ChannelAppointment,
}

// IsValidChannel reports whether s names a supported channel
func IsValidChannel(s string) bool {
	for _, c := range Channels {
		if string(c) == s {
			return true
		}
	}
	return false
}

// DelayUnit represents the unit of an automation's execution delay
type DelayUnit string

const (
	DelayMinutes DelayUnit = "minutes"
	DelayHours   DelayUnit = "hours"
	DelayDays    DelayUnit = "days"
)

// OwnerScope identifies whose automations and contacts an operation applies to.
// WorkspaceID is set when the owner acts inside a shared workspace.
type OwnerScope struct {
	UserID      uuid.UUID  `json:"user_id"`
	WorkspaceID *uuid.UUID `json:"workspace_id,omitempty"`
}

// Automation represents a persisted follow-up rule: channel + trigger +
// conditions + action + delay + priority. The engine treats it as read-only.
type Automation struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	WorkspaceID       *uuid.UUID `json:"workspace_id,omitempty" db:"workspace_id"`
	Name              string     `json:"name" db:"name"`
	Channel           Channel    `json:"channel" db:"channel"`
	TriggerType       string     `json:"trigger_type" db:"trigger_type"`
	TriggerConditions JSONB      `json:"trigger_conditions" db:"trigger_conditions"`
	ActionType        string     `json:"action_type" db:"action_type"`
	ActionConfig      JSONB      `json:"action_config" db:"action_config"`
	DelayAmount       int        `json:"delay_amount" db:"delay_amount"`
	DelayUnit         DelayUnit  `json:"delay_unit" db:"delay_unit"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	Priority          int        `json:"priority" db:"priority"`
	CampaignID        *uuid.UUID `json:"campaign_id,omitempty" db:"campaign_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Owner returns the automation's owner scope
func (a *Automation) Owner() OwnerScope {
	return OwnerScope{UserID: a.UserID, WorkspaceID: a.WorkspaceID}
}

// Action types understood by the action executor
const (
	ActionSendEmail      = "send_email"
	ActionSendSMS        = "send_sms"
	ActionAddTag         = "add_tag"
	ActionRemoveTag      = "remove_tag"
	ActionUpdateStatus   = "update_status"
	ActionNotifyUser     = "notify_user"
	ActionScheduleCall   = "schedule_call"
	ActionWebhook        = "webhook"
	ActionMoveToCampaign = "move_to_campaign"
)

// ActionTypes is the global registry of executable action types
var ActionTypes = []string{
	ActionSendEmail, ActionSendSMS, ActionAddTag, ActionRemoveTag,
	ActionUpdateStatus, ActionNotifyUser, ActionScheduleCall,
	ActionWebhook, ActionMoveToCampaign,
}

// IsValidActionType reports whether s is a registered action type
func IsValidActionType(s string) bool {
	for _, a := range ActionTypes {
		if a == s {
			return true
		}
	}
	return false
}

// TriggerCategory classifies how a trigger type is matched. Reserved prefixes
// route to a confidence-gated classifier; everything else is matched against
// the literal event shape and the automation's declared conditions.
type TriggerCategory int

const (
	TriggerStandard TriggerCategory = iota
	TriggerSentiment
	TriggerIntent
	TriggerSemantic
	TriggerCombined
)

func (c TriggerCategory) String() string {
	switch c {
	case TriggerSentiment:
		return "sentiment"
	case TriggerIntent:
		return "intent"
	case TriggerSemantic:
		return "semantic"
	case TriggerCombined:
		return "combined"
	default:
		return "standard"
	}
}

// triggerPrefixes maps reserved trigger-type prefixes to their category,
// resolved in one place rather than by prefix checks scattered through the
// matching path.
var triggerPrefixes = []struct {
	prefix   string
	category TriggerCategory
}{
	{"sentiment_", TriggerSentiment},
	{"intent_", TriggerIntent},
	{"semantic_", TriggerSemantic},
}

// ResolveTriggerCategory returns the matching category for a trigger type and,
// for classified categories, the classification target (e.g. "positive" for
// "sentiment_positive").
func ResolveTriggerCategory(triggerType string) (TriggerCategory, string) {
	if triggerType == "combined_conditions" {
		return TriggerCombined, ""
	}
	for _, p := range triggerPrefixes {
		if strings.HasPrefix(triggerType, p.prefix) {
			return p.category, strings.TrimPrefix(triggerType, p.prefix)
		}
	}
	return TriggerStandard, triggerType
}

// channelTriggerTypes registers the literal trigger types each channel emits.
// Classified triggers (sentiment_*, intent_*, semantic_*, combined_conditions)
// are valid on every channel and are not listed here.
var channelTriggerTypes = map[Channel][]string{
	ChannelEmail:       {"email_opened", "email_clicked", "email_replied", "email_bounced", "email_unsubscribed", "link_clicked"},
	ChannelSMS:         {"sms_delivered", "sms_reply", "sms_failed", "sms_opt_out", "link_clicked"},
	ChannelCall:        {"call_answered", "call_missed", "call_voicemail", "call_completed", "call_disposition"},
	ChannelForm:        {"form_submitted", "form_abandoned"},
	ChannelWhatsApp:    {"message_received", "message_read", "message_failed"},
	ChannelMessenger:   {"message_received", "message_read"},
	ChannelLinkedIn:    {"connection_accepted", "message_received", "profile_viewed"},
	ChannelAppointment: {"appointment_booked", "appointment_rescheduled", "appointment_cancelled", "appointment_no_show", "appointment_completed"},
}

// IsValidTriggerType reports whether triggerType is usable on the channel.
// Classified triggers and disposition_* triggers are accepted everywhere a
// disposition or analyzable text can appear.
func IsValidTriggerType(channel Channel, triggerType string) bool {
	if cat, _ := ResolveTriggerCategory(triggerType); cat != TriggerStandard {
		return true
	}
	if strings.HasPrefix(triggerType, "disposition_") {
		return true
	}
	for _, t := range channelTriggerTypes[channel] {
		if t == triggerType {
			return true
		}
	}
	return false
}

// JSONB is a schemaless key/value column stored as JSONB
type JSONB map[string]interface{}

// Scan implements sql.Scanner for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		*j = make(map[string]interface{})
		return nil
	}

	result := make(map[string]interface{})
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}

	*j = result
	return nil
}

// Value implements driver.Valuer for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return json.Marshal(map[string]interface{}{})
	}
	return json.Marshal(j)
}

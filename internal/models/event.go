package models

import (
	"github.com/google/uuid"
)

// TriggerEvent is one reported business event: a call disposition, an email or
// SMS outcome, a form submission, an appointment state change. TriggerType may
// be empty, in which case every active automation on the channel decides its
// own applicability (intelligent matching).
type TriggerEvent struct {
	Channel     Channel                `json:"channel"`
	TriggerType string                 `json:"trigger_type,omitempty"`
	ContactID   uuid.UUID              `json:"contact_id"`
	CampaignID  *uuid.UUID             `json:"campaign_id,omitempty"`
	Payload     map[string]interface{} `json:"payload"`
}

// PayloadString returns the payload value under key as a string, or "" when
// absent or not a string.
func (e *TriggerEvent) PayloadString(key string) string {
	if e.Payload == nil {
		return ""
	}
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}

// AnalysisText returns the first non-empty free-text field of the payload, the
// text the classifiers run on. Analysis happens at most once per event.
func (e *TriggerEvent) AnalysisText() string {
	for _, key := range []string{"notes", "reply_content", "message"} {
		if s := e.PayloadString(key); s != "" {
			return s
		}
	}
	return ""
}

package models

import (
	"testing"
)

func TestResolveTriggerCategory(t *testing.T) {
	tests := []struct {
		triggerType  string
		wantCategory TriggerCategory
		wantTarget   string
	}{
		{"sentiment_positive", TriggerSentiment, "positive"},
		{"sentiment_negative", TriggerSentiment, "negative"},
		{"intent_callback_requested", TriggerIntent, "callback_requested"},
		{"semantic_not_interested", TriggerSemantic, "not_interested"},
		{"combined_conditions", TriggerCombined, ""},
		{"call_answered", TriggerStandard, "call_answered"},
		{"email_replied", TriggerStandard, "email_replied"},
		// "combined_" alone is not a reserved prefix
		{"combined_something", TriggerStandard, "combined_something"},
	}

	for _, tt := range tests {
		t.Run(tt.triggerType, func(t *testing.T) {
			category, target := ResolveTriggerCategory(tt.triggerType)
			if category != tt.wantCategory {
				t.Errorf("category = %v, want %v", category, tt.wantCategory)
			}
			if target != tt.wantTarget {
				t.Errorf("target = %q, want %q", target, tt.wantTarget)
			}
		})
	}
}

func TestIsValidTriggerType(t *testing.T) {
	tests := []struct {
		name        string
		channel     Channel
		triggerType string
		want        bool
	}{
		{"literal type on its channel", ChannelCall, "call_answered", true},
		{"literal type on wrong channel", ChannelEmail, "call_answered", false},
		{"classified triggers valid everywhere", ChannelForm, "sentiment_negative", true},
		{"combined valid everywhere", ChannelSMS, "combined_conditions", true},
		{"disposition prefix accepted", ChannelCall, "disposition_interested", true},
		{"shared literal on both channels", ChannelEmail, "link_clicked", true},
		{"unknown literal rejected", ChannelCall, "fax_received", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTriggerType(tt.channel, tt.triggerType); got != tt.want {
				t.Errorf("IsValidTriggerType(%s, %s) = %v, want %v", tt.channel, tt.triggerType, got, tt.want)
			}
		})
	}
}

func TestIsValidChannel(t *testing.T) {
	for _, c := range Channels {
		if !IsValidChannel(string(c)) {
			t.Errorf("IsValidChannel(%s) = false, want true", c)
		}
	}
	if IsValidChannel("carrier_pigeon") {
		t.Error("IsValidChannel(carrier_pigeon) = true, want false")
	}
}

func TestExecutionStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status ExecutionStatus
		want   bool
	}{
		{ExecutionStatusPending, false},
		{ExecutionStatusScheduled, false},
		{ExecutionStatusExecuted, true},
		{ExecutionStatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

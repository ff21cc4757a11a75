package analysis

import (
	"context"
	"testing"
)

func TestLexiconIntentDetector(t *testing.T) {
	detector := NewLexiconIntentDetector()

	tests := []struct {
		name       string
		text       string
		wantIntent string
	}{
		{
			name:       "unsubscribe beats interested",
			text:       "yes please unsubscribe me",
			wantIntent: IntentUnsubscribe,
		},
		{
			name:       "complaint detected",
			text:       "this is a scam, I'm reporting you",
			wantIntent: IntentComplaint,
		},
		{
			name:       "callback request",
			text:       "busy now, call me back tomorrow",
			wantIntent: IntentCallbackRequested,
		},
		{
			name:       "not interested beats interested",
			text:       "not interested, thanks",
			wantIntent: IntentNotInterested,
		},
		{
			name:       "question mark",
			text:       "how much does the premium plan cost?",
			wantIntent: IntentQuestion,
		},
		{
			name:       "plain interest",
			text:       "interested, tell me more",
			wantIntent: IntentInterested,
		},
		{
			name:       "nothing recognized",
			text:       "see attached file",
			wantIntent: IntentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := detector.DetectIntent(context.Background(), tt.text, "", "")
			if err != nil {
				t.Fatalf("DetectIntent returned error: %v", err)
			}
			if result.PrimaryIntent != tt.wantIntent {
				t.Errorf("intent = %s, want %s", result.PrimaryIntent, tt.wantIntent)
			}
		})
	}
}

func TestIntentDispositionConflict(t *testing.T) {
	detector := NewLexiconIntentDetector()

	tests := []struct {
		name         string
		text         string
		disposition  string
		category     string
		wantConflict bool
	}{
		{
			name:         "interested text vs not_interested disposition",
			text:         "actually I'm interested, tell me more",
			category:     "not_interested",
			wantConflict: true,
		},
		{
			name:         "not interested text vs interested disposition",
			text:         "no thanks, not interested",
			category:     "interested",
			wantConflict: true,
		},
		{
			name:         "agreeing text and disposition",
			text:         "interested, sounds good",
			category:     "interested",
			wantConflict: false,
		},
		{
			name:         "no disposition recorded",
			text:         "interested, tell me more",
			wantConflict: false,
		},
		{
			name:         "falls back to disposition name",
			text:         "sign me up, yes",
			disposition:  "Do Not Call",
			wantConflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := detector.DetectIntent(context.Background(), tt.text, tt.disposition, tt.category)
			if err != nil {
				t.Fatalf("DetectIntent returned error: %v", err)
			}
			if result.HasConflict != tt.wantConflict {
				t.Errorf("HasConflict = %v, want %v", result.HasConflict, tt.wantConflict)
			}
		})
	}
}

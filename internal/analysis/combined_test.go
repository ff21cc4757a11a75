package analysis

import (
	"context"
	"strings"
	"testing"
)

func TestCombinedEvaluator(t *testing.T) {
	evaluator := NewCombinedEvaluator()

	baseCtx := func() *Context {
		return &Context{
			Sentiment:   &SentimentResult{Sentiment: SentimentPositive, ConfidenceScore: 85},
			Intent:      &IntentResult{PrimaryIntent: IntentInterested, ConfidenceScore: 90},
			Disposition: &DispositionCategory{Category: CategoryInterested, Confidence: 80},
			Payload:     map[string]interface{}{"campaign": "spring", "attempts": 2},
		}
	}

	tests := []struct {
		name           string
		conditions     map[string]interface{}
		mutate         func(*Context)
		wantTriggered  bool
		wantSkipSubstr string
	}{
		{
			name: "all conditions hold",
			conditions: map[string]interface{}{
				"sentiment": "positive",
				"intent":    "interested",
			},
			wantTriggered: true,
		},
		{
			name:           "sentiment label mismatch",
			conditions:     map[string]interface{}{"sentiment": "negative"},
			wantTriggered:  false,
			wantSkipSubstr: "sentiment is positive",
		},
		{
			name:       "sentiment below default threshold",
			conditions: map[string]interface{}{"sentiment": "positive"},
			mutate: func(c *Context) {
				c.Sentiment.ConfidenceScore = 65
			},
			wantTriggered:  false,
			wantSkipSubstr: "below threshold 70",
		},
		{
			name: "threshold override admits lower confidence",
			conditions: map[string]interface{}{
				"sentiment":            "positive",
				"confidence_threshold": 60,
			},
			mutate: func(c *Context) {
				c.Sentiment.ConfidenceScore = 65
			},
			wantTriggered: true,
		},
		{
			name:       "missing analysis fails closed",
			conditions: map[string]interface{}{"intent": "interested"},
			mutate: func(c *Context) {
				c.Intent = nil
			},
			wantTriggered:  false,
			wantSkipSubstr: "no intent analysis",
		},
		{
			name: "disposition category gated",
			conditions: map[string]interface{}{
				"disposition_category": "interested",
			},
			wantTriggered: true,
		},
		{
			name: "labels compare case-insensitively",
			conditions: map[string]interface{}{
				"sentiment": "Positive",
			},
			wantTriggered: true,
		},
		{
			name:          "payload keys compare by value",
			conditions:    map[string]interface{}{"campaign": "spring"},
			wantTriggered: true,
		},
		{
			name:          "numeric payload values compare loosely",
			conditions:    map[string]interface{}{"attempts": 2},
			wantTriggered: true,
		},
		{
			name:           "absent payload key fails",
			conditions:     map[string]interface{}{"region": "emea"},
			wantTriggered:  false,
			wantSkipSubstr: "payload has no region",
		},
		{
			name:           "empty conditions never trigger",
			conditions:     map[string]interface{}{},
			wantTriggered:  false,
			wantSkipSubstr: "no conditions declared",
		},
		{
			name: "threshold-only conditions never trigger",
			conditions: map[string]interface{}{
				"confidence_threshold": 50,
			},
			wantTriggered:  false,
			wantSkipSubstr: "no conditions declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actx := baseCtx()
			if tt.mutate != nil {
				tt.mutate(actx)
			}

			result, err := evaluator.Evaluate(context.Background(), tt.conditions, actx)
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if result.Triggered != tt.wantTriggered {
				t.Errorf("Triggered = %v, want %v (skip: %s)", result.Triggered, tt.wantTriggered, result.SkipReason)
			}
			if tt.wantSkipSubstr != "" && !strings.Contains(result.SkipReason, tt.wantSkipSubstr) {
				t.Errorf("SkipReason = %q, want it to mention %q", result.SkipReason, tt.wantSkipSubstr)
			}
		})
	}
}

func TestCombinedEvaluatorRecordsScores(t *testing.T) {
	evaluator := NewCombinedEvaluator()

	actx := &Context{
		Sentiment: &SentimentResult{Sentiment: SentimentNegative, ConfidenceScore: 88},
		Intent:    &IntentResult{PrimaryIntent: IntentComplaint, ConfidenceScore: 92},
		Payload:   map[string]interface{}{},
	}

	result, err := evaluator.Evaluate(context.Background(), map[string]interface{}{
		"sentiment": "negative",
		"intent":    "complaint",
	}, actx)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if !result.Triggered {
		t.Fatalf("expected trigger, got skip: %s", result.SkipReason)
	}
	if len(result.MatchedConditions) != 2 {
		t.Errorf("matched %d conditions, want 2", len(result.MatchedConditions))
	}
	if result.ConfidenceScores["sentiment"] != 88 {
		t.Errorf("sentiment score = %.0f, want 88", result.ConfidenceScores["sentiment"])
	}
	if result.ConfidenceScores["intent"] != 92 {
		t.Errorf("intent score = %.0f, want 92", result.ConfidenceScores["intent"])
	}
}

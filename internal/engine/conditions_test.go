package engine

import (
	"testing"
)

func TestCheckConditions(t *testing.T) {
	evaluator := NewConditionEvaluator()

	tests := []struct {
		name       string
		conditions map[string]interface{}
		payload    map[string]interface{}
		expected   bool
	}{
		{
			name:       "empty conditions always match",
			conditions: map[string]interface{}{},
			payload:    map[string]interface{}{"anything": "at all"},
			expected:   true,
		},
		{
			name:       "sentiment equality matches",
			conditions: map[string]interface{}{"sentiment": "positive"},
			payload:    map[string]interface{}{"sentiment": "positive"},
			expected:   true,
		},
		{
			name:       "sentiment equality mismatch",
			conditions: map[string]interface{}{"sentiment": "positive"},
			payload:    map[string]interface{}{"sentiment": "negative"},
			expected:   false,
		},
		{
			name:       "missing sentiment key fails",
			conditions: map[string]interface{}{"sentiment": "positive"},
			payload:    map[string]interface{}{},
			expected:   false,
		},
		{
			name:       "disposition_id equality",
			conditions: map[string]interface{}{"disposition_id": "42"},
			payload:    map[string]interface{}{"disposition_id": "42"},
			expected:   true,
		},
		{
			name:       "disposition_category equality",
			conditions: map[string]interface{}{"disposition_category": "interested"},
			payload:    map[string]interface{}{"disposition_category": "interested"},
			expected:   true,
		},
		{
			name:       "notes_keyword substring case-insensitive",
			conditions: map[string]interface{}{"notes_keyword": "callback"},
			payload:    map[string]interface{}{"notes": "Requested a CALLBACK tomorrow"},
			expected:   true,
		},
		{
			name:       "notes_keyword absent notes",
			conditions: map[string]interface{}{"notes_keyword": "callback"},
			payload:    map[string]interface{}{},
			expected:   false,
		},
		{
			name:       "reply_keyword matches reply_content",
			conditions: map[string]interface{}{"reply_keyword": "pricing"},
			payload:    map[string]interface{}{"reply_content": "What is your Pricing?"},
			expected:   true,
		},
		{
			name:       "reply_keyword falls back to message",
			conditions: map[string]interface{}{"reply_keyword": "pricing"},
			payload:    map[string]interface{}{"message": "send pricing please"},
			expected:   true,
		},
		{
			name:       "call_duration_min satisfied",
			conditions: map[string]interface{}{"call_duration_min": 30},
			payload:    map[string]interface{}{"call_duration": 45},
			expected:   true,
		},
		{
			name:       "call_duration_min not satisfied",
			conditions: map[string]interface{}{"call_duration_min": 30},
			payload:    map[string]interface{}{"call_duration": 10},
			expected:   false,
		},
		{
			name:       "call_duration_min with missing duration defaults to zero",
			conditions: map[string]interface{}{"call_duration_min": 30},
			payload:    map[string]interface{}{},
			expected:   false,
		},
		{
			name:       "call_duration_max satisfied",
			conditions: map[string]interface{}{"call_duration_max": 60.0},
			payload:    map[string]interface{}{"call_duration": 45.0},
			expected:   true,
		},
		{
			name:       "call_duration_max exceeded",
			conditions: map[string]interface{}{"call_duration_max": 60},
			payload:    map[string]interface{}{"call_duration": 90},
			expected:   false,
		},
		{
			name:       "link_url_contains matches link_url",
			conditions: map[string]interface{}{"link_url_contains": "pricing"},
			payload:    map[string]interface{}{"link_url": "https://example.com/Pricing/pro"},
			expected:   true,
		},
		{
			name:       "link_url_contains falls back to clicked_url",
			conditions: map[string]interface{}{"link_url_contains": "demo"},
			payload:    map[string]interface{}{"clicked_url": "https://example.com/book-demo"},
			expected:   true,
		},
		{
			name: "form_field all pairs equal",
			conditions: map[string]interface{}{
				"form_field": map[string]interface{}{"interest": "solar", "state": "TX"},
			},
			payload: map[string]interface{}{
				"form_data": map[string]interface{}{"interest": "solar", "state": "TX", "extra": "ignored"},
			},
			expected: true,
		},
		{
			name: "form_field one pair differs",
			conditions: map[string]interface{}{
				"form_field": map[string]interface{}{"interest": "solar", "state": "TX"},
			},
			payload: map[string]interface{}{
				"form_data": map[string]interface{}{"interest": "solar", "state": "CA"},
			},
			expected: false,
		},
		{
			name: "form_field reads fields fallback",
			conditions: map[string]interface{}{
				"form_field": map[string]interface{}{"interest": "solar"},
			},
			payload: map[string]interface{}{
				"fields": map[string]interface{}{"interest": "solar"},
			},
			expected: true,
		},
		{
			name: "disposition_names case-insensitive membership",
			conditions: map[string]interface{}{
				"disposition_names": []interface{}{"Interested", "Callback"},
			},
			payload:  map[string]interface{}{"disposition_name": "interested"},
			expected: true,
		},
		{
			name: "disposition_names not a member",
			conditions: map[string]interface{}{
				"disposition_names": []interface{}{"Interested", "Callback"},
			},
			payload:  map[string]interface{}{"disposition_name": "Wrong Number"},
			expected: false,
		},
		{
			name: "default key list membership",
			conditions: map[string]interface{}{
				"status": []interface{}{"new", "open"},
			},
			payload:  map[string]interface{}{"status": "open"},
			expected: true,
		},
		{
			name:       "default key equality with numeric drift",
			conditions: map[string]interface{}{"attempt": 3},
			payload:    map[string]interface{}{"attempt": 3.0},
			expected:   true,
		},
		{
			name:       "default key absent from payload fails",
			conditions: map[string]interface{}{"custom_flag": "yes"},
			payload:    map[string]interface{}{},
			expected:   false,
		},
		{
			name: "all conditions must hold",
			conditions: map[string]interface{}{
				"sentiment":         "positive",
				"call_duration_min": 30,
			},
			payload: map[string]interface{}{
				"sentiment":     "positive",
				"call_duration": 10,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluator.CheckConditions(tt.conditions, tt.payload)
			if got != tt.expected {
				t.Errorf("CheckConditions() = %v, want %v", got, tt.expected)
			}
		})
	}
}

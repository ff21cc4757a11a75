package engine

import (
	"fmt"
	"strings"
)

// ConditionEvaluator evaluates declared trigger conditions against an event
// payload. Every declared key is a condition and all of them must hold.
type ConditionEvaluator struct{}

// NewConditionEvaluator creates a new condition evaluator
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{}
}

// CheckConditions reports whether every declared condition holds against the
// payload. An empty condition map always matches. A condition whose payload
// key is absent fails.
func (e *ConditionEvaluator) CheckConditions(conditions map[string]interface{}, payload map[string]interface{}) bool {
	for key, expected := range conditions {
		if !e.checkCondition(key, expected, payload) {
			return false
		}
	}
	return true
}

// checkCondition evaluates one condition key. Keys with dedicated semantics
// are handled explicitly; any other key falls through to list-membership or
// equality against the payload value.
func (e *ConditionEvaluator) checkCondition(key string, expected interface{}, payload map[string]interface{}) bool {
	switch key {
	case "disposition_id":
		return valueEquals(payload["disposition_id"], expected)

	case "disposition_category":
		return valueEquals(payload["disposition_category"], expected)

	case "sentiment":
		return valueEquals(payload["sentiment"], expected)

	case "notes_keyword":
		return containsFold(stringValue(payload["notes"]), stringValue(expected))

	case "reply_keyword":
		text := stringValue(payload["reply_content"])
		if text == "" {
			text = stringValue(payload["message"])
		}
		return containsFold(text, stringValue(expected))

	case "call_duration_min":
		min, ok := toFloat64(expected)
		if !ok {
			return false
		}
		duration, _ := toFloat64(payload["call_duration"])
		return duration >= min

	case "call_duration_max":
		max, ok := toFloat64(expected)
		if !ok {
			return false
		}
		duration, _ := toFloat64(payload["call_duration"])
		return duration <= max

	case "link_url_contains":
		url := stringValue(payload["link_url"])
		if url == "" {
			url = stringValue(payload["clicked_url"])
		}
		return containsFold(url, stringValue(expected))

	case "form_field":
		return e.checkFormFields(expected, payload)

	case "disposition_names":
		return e.checkDispositionNames(expected, payload)

	default:
		actual, present := payload[key]
		if !present {
			// Unknown keys with no payload counterpart fail the match
			return false
		}
		if list, ok := expected.([]interface{}); ok {
			return valueInList(actual, list)
		}
		return valueEquals(actual, expected)
	}
}

// checkFormFields requires every declared field→value pair to equal the
// corresponding entry of the submitted form data
func (e *ConditionEvaluator) checkFormFields(expected interface{}, payload map[string]interface{}) bool {
	fields, ok := expected.(map[string]interface{})
	if !ok {
		return false
	}

	formData, ok := payload["form_data"].(map[string]interface{})
	if !ok {
		formData, ok = payload["fields"].(map[string]interface{})
		if !ok {
			return false
		}
	}

	for field, want := range fields {
		got, present := formData[field]
		if !present || !valueEquals(got, want) {
			return false
		}
	}
	return true
}

// checkDispositionNames requires the payload's disposition_name to appear in
// the declared list, compared case-insensitively
func (e *ConditionEvaluator) checkDispositionNames(expected interface{}, payload map[string]interface{}) bool {
	name := stringValue(payload["disposition_name"])
	if name == "" {
		return false
	}

	switch list := expected.(type) {
	case []interface{}:
		for _, item := range list {
			if strings.EqualFold(name, stringValue(item)) {
				return true
			}
		}
	case []string:
		for _, item := range list {
			if strings.EqualFold(name, item) {
				return true
			}
		}
	}
	return false
}

// valueEquals compares two payload values by their string rendering, which
// tolerates the int/float64 drift JSON decoding introduces
func valueEquals(a, b interface{}) bool {
	if af, aok := toFloat64(a); aok {
		if bf, bok := toFloat64(b); bok {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// valueInList checks membership by the same loose equality as valueEquals
func valueInList(value interface{}, list []interface{}) bool {
	for _, item := range list {
		if valueEquals(value, item) {
			return true
		}
	}
	return false
}

// containsFold is a case-insensitive substring check; an empty needle never
// matches
func containsFold(haystack, needle string) bool {
	if needle == "" || haystack == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func stringValue(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// toFloat64 converts various numeric types to float64
func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

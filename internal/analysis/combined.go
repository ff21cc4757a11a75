package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// defaultCombinedThreshold gates classifier-backed conditions inside a
// combined-conditions trigger unless the conditions override it
const defaultCombinedThreshold = 70.0

// CombinedEvaluator evaluates a combined-conditions trigger: every declared
// condition must hold against the analysis context for the trigger to fire.
// Classifier-backed conditions (sentiment, intent, disposition_category) are
// confidence-gated; any other key is compared against the raw payload.
type CombinedEvaluator struct{}

// NewCombinedEvaluator creates a combined-conditions evaluator
func NewCombinedEvaluator() *CombinedEvaluator {
	return &CombinedEvaluator{}
}

// Evaluate checks every condition in the map. It returns the matched condition
// names and their confidence scores, or a skip reason naming the first
// condition that failed.
func (e *CombinedEvaluator) Evaluate(ctx context.Context, conditions map[string]interface{}, actx *Context) (*TriggerEvaluation, error) {
	result := &TriggerEvaluation{
		MatchedConditions: []string{},
		ConfidenceScores:  map[string]float64{},
	}

	threshold := defaultCombinedThreshold
	if v, ok := toNumber(conditions["confidence_threshold"]); ok {
		threshold = v
	}

	for key, expected := range conditions {
		if key == "confidence_threshold" {
			continue
		}

		switch key {
		case "sentiment":
			if actx.Sentiment == nil {
				result.SkipReason = "no sentiment analysis available"
				return result, nil
			}
			if !equalsFold(actx.Sentiment.Sentiment, expected) {
				result.SkipReason = fmt.Sprintf("sentiment is %s, wanted %v", actx.Sentiment.Sentiment, expected)
				return result, nil
			}
			if actx.Sentiment.ConfidenceScore < threshold {
				result.SkipReason = fmt.Sprintf("sentiment confidence %.0f below threshold %.0f", actx.Sentiment.ConfidenceScore, threshold)
				return result, nil
			}
			result.ConfidenceScores[key] = actx.Sentiment.ConfidenceScore

		case "intent":
			if actx.Intent == nil {
				result.SkipReason = "no intent analysis available"
				return result, nil
			}
			if !equalsFold(actx.Intent.PrimaryIntent, expected) {
				result.SkipReason = fmt.Sprintf("intent is %s, wanted %v", actx.Intent.PrimaryIntent, expected)
				return result, nil
			}
			if actx.Intent.ConfidenceScore < threshold {
				result.SkipReason = fmt.Sprintf("intent confidence %.0f below threshold %.0f", actx.Intent.ConfidenceScore, threshold)
				return result, nil
			}
			result.ConfidenceScores[key] = actx.Intent.ConfidenceScore

		case "disposition_category":
			if actx.Disposition == nil {
				result.SkipReason = "no disposition categorization available"
				return result, nil
			}
			if !equalsFold(actx.Disposition.Category, expected) {
				result.SkipReason = fmt.Sprintf("disposition category is %s, wanted %v", actx.Disposition.Category, expected)
				return result, nil
			}
			if actx.Disposition.Confidence < threshold {
				result.SkipReason = fmt.Sprintf("category confidence %.0f below threshold %.0f", actx.Disposition.Confidence, threshold)
				return result, nil
			}
			result.ConfidenceScores[key] = actx.Disposition.Confidence

		default:
			actual, present := actx.Payload[key]
			if !present {
				result.SkipReason = fmt.Sprintf("payload has no %s", key)
				return result, nil
			}
			if fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", expected) {
				result.SkipReason = fmt.Sprintf("%s is %v, wanted %v", key, actual, expected)
				return result, nil
			}
		}

		result.MatchedConditions = append(result.MatchedConditions, key)
	}

	result.Triggered = len(result.MatchedConditions) > 0
	if !result.Triggered {
		result.SkipReason = "no conditions declared"
	}
	return result, nil
}

func equalsFold(actual string, expected interface{}) bool {
	s, ok := expected.(string)
	if !ok {
		s = fmt.Sprintf("%v", expected)
	}
	return strings.EqualFold(actual, s)
}

// toNumber coerces common JSON numeric representations to float64
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

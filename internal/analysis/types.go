package analysis

import (
	"context"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// Sentiment labels returned by the sentiment analyzer
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentResult is the outcome of sentiment analysis on one piece of text
type SentimentResult struct {
	Sentiment       string  `json:"sentiment"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// IntentResult is the outcome of intent detection. HasConflict is set when the
// detected intent contradicts the recorded disposition.
type IntentResult struct {
	PrimaryIntent   string  `json:"primary_intent"`
	ConfidenceScore float64 `json:"confidence_score"`
	HasConflict     bool    `json:"has_conflict"`
}

// DispositionCategory is the semantic category assigned to a free-form
// disposition name
type DispositionCategory struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// TriggerEvaluation is the outcome of evaluating a combined-conditions trigger
type TriggerEvaluation struct {
	Triggered         bool               `json:"triggered"`
	MatchedConditions []string           `json:"matched_conditions"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	SkipReason        string             `json:"skip_reason,omitempty"`
}

// SentimentAnalyzer classifies the sentiment of free text
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (*SentimentResult, error)
}

// IntentDetector extracts the primary intent from free text, optionally
// informed by the call disposition
type IntentDetector interface {
	DetectIntent(ctx context.Context, text, dispositionName, dispositionCategory string) (*IntentResult, error)
}

// SemanticMatcher assigns a canonical category to a disposition name
type SemanticMatcher interface {
	CategorizeDisposition(ctx context.Context, name string) (*DispositionCategory, error)
}

// TriggerEvaluator evaluates a full combined-conditions map against an
// analysis context
type TriggerEvaluator interface {
	Evaluate(ctx context.Context, conditions map[string]interface{}, actx *Context) (*TriggerEvaluation, error)
}

// Context bundles the classification results derived from one trigger event.
// It is built at most once per event, shared across every candidate
// automation evaluated for that event, and never persisted.
type Context struct {
	Sentiment   *SentimentResult
	Intent      *IntentResult
	Disposition *DispositionCategory
	Channel     models.Channel
	CampaignID  *uuid.UUID
	Payload     map[string]interface{}
}

// Snapshot returns the derived classification fields for inclusion in an
// execution's trigger data
func (c *Context) Snapshot() map[string]interface{} {
	out := make(map[string]interface{})
	if c.Sentiment != nil {
		out["sentiment"] = c.Sentiment.Sentiment
		out["sentiment_confidence"] = c.Sentiment.ConfidenceScore
	}
	if c.Intent != nil {
		out["intent"] = c.Intent.PrimaryIntent
		out["intent_confidence"] = c.Intent.ConfidenceScore
		if c.Intent.HasConflict {
			out["intent_conflict"] = true
		}
	}
	if c.Disposition != nil {
		out["disposition_semantic_category"] = c.Disposition.Category
		out["disposition_semantic_confidence"] = c.Disposition.Confidence
	}
	return out
}

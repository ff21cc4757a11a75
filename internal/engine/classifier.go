package engine

import (
	"context"
	"strings"

	"github.com/ronittamrakar/Xordon-sub011/internal/analysis"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// Default confidence thresholds per classified trigger category
const (
	defaultSentimentThreshold = 70.0
	defaultIntentThreshold    = 70.0
	defaultSemanticThreshold  = 60.0
)

// MatchDecision is the outcome of evaluating one automation against one event
type MatchDecision struct {
	Matched    bool
	Reason     *models.TriggerReason
	Confidence *float64
	SkipReason string
}

// Classifier decides whether an automation's trigger applies to an event. It
// wraps the sentiment, intent and semantic collaborators plus the combined
// evaluator, and falls back to literal event-shape matching for standard
// trigger types.
type Classifier struct {
	sentiment  analysis.SentimentAnalyzer
	intent     analysis.IntentDetector
	semantic   analysis.SemanticMatcher
	combined   analysis.TriggerEvaluator
	conditions *ConditionEvaluator
	logger     *logger.Logger
}

// NewClassifier creates a classifier over the analysis collaborators. Any of
// the collaborators may be nil, in which case triggers requiring it never
// match.
func NewClassifier(
	sentiment analysis.SentimentAnalyzer,
	intent analysis.IntentDetector,
	semantic analysis.SemanticMatcher,
	combined analysis.TriggerEvaluator,
	log *logger.Logger,
) *Classifier {
	return &Classifier{
		sentiment:  sentiment,
		intent:     intent,
		semantic:   semantic,
		combined:   combined,
		conditions: NewConditionEvaluator(),
		logger:     log,
	}
}

// BuildContext runs each applicable analyzer at most once for the event and
// bundles the results. Collaborator failures are logged and degrade to an
// absent result so one failing analyzer never aborts the routing pass.
func (c *Classifier) BuildContext(ctx context.Context, event *models.TriggerEvent) *analysis.Context {
	actx := &analysis.Context{
		Channel:    event.Channel,
		CampaignID: event.CampaignID,
		Payload:    event.Payload,
	}

	text := event.AnalysisText()
	dispositionName := event.PayloadString("disposition_name")

	if c.semantic != nil && dispositionName != "" {
		category, err := c.semantic.CategorizeDisposition(ctx, dispositionName)
		if err != nil {
			c.logger.Warn("disposition categorization failed",
				logger.String("disposition", dispositionName),
				logger.Err(err),
			)
		} else {
			actx.Disposition = category
		}
	}

	if text == "" {
		return actx
	}

	if c.sentiment != nil {
		result, err := c.sentiment.Analyze(ctx, text)
		if err != nil {
			c.logger.Warn("sentiment analysis failed", logger.Err(err))
		} else {
			actx.Sentiment = result
		}
	}

	if c.intent != nil {
		dispositionCategory := ""
		if actx.Disposition != nil {
			dispositionCategory = actx.Disposition.Category
		}
		result, err := c.intent.DetectIntent(ctx, text, dispositionName, dispositionCategory)
		if err != nil {
			c.logger.Warn("intent detection failed", logger.Err(err))
		} else {
			actx.Intent = result
		}
	}

	return actx
}

// Match decides whether the automation's trigger applies to the event.
// Classified trigger types route to the matching analyzer result with a
// confidence gate; everything else is matched against the literal event shape
// and the declared conditions.
func (c *Classifier) Match(ctx context.Context, automation *models.Automation, event *models.TriggerEvent, actx *analysis.Context) (*MatchDecision, error) {
	category, target := models.ResolveTriggerCategory(automation.TriggerType)

	switch category {
	case models.TriggerSentiment:
		return c.matchSentiment(automation, target, actx), nil

	case models.TriggerIntent:
		return c.matchIntent(automation, target, actx), nil

	case models.TriggerSemantic:
		return c.matchSemantic(automation, target, actx), nil

	case models.TriggerCombined:
		return c.matchCombined(ctx, automation, actx)

	default:
		return c.matchStandard(automation, event), nil
	}
}

func (c *Classifier) matchSentiment(automation *models.Automation, target string, actx *analysis.Context) *MatchDecision {
	if actx.Sentiment == nil {
		return &MatchDecision{SkipReason: "no sentiment analysis available"}
	}

	threshold := conditionThreshold(automation.TriggerConditions, defaultSentimentThreshold)
	result := actx.Sentiment

	if !strings.EqualFold(result.Sentiment, target) {
		return &MatchDecision{SkipReason: "sentiment " + result.Sentiment + " does not match " + target}
	}
	if result.ConfidenceScore < threshold {
		return &MatchDecision{SkipReason: "sentiment confidence below threshold"}
	}

	confidence := result.ConfidenceScore
	return &MatchDecision{
		Matched:    true,
		Confidence: &confidence,
		Reason: &models.TriggerReason{
			MatchKind:  "sentiment",
			Expected:   target,
			Actual:     result.Sentiment,
			Confidence: &confidence,
		},
	}
}

func (c *Classifier) matchIntent(automation *models.Automation, target string, actx *analysis.Context) *MatchDecision {
	if actx.Intent == nil {
		return &MatchDecision{SkipReason: "no intent analysis available"}
	}

	threshold := conditionThreshold(automation.TriggerConditions, defaultIntentThreshold)
	result := actx.Intent

	if !strings.EqualFold(result.PrimaryIntent, target) {
		return &MatchDecision{SkipReason: "intent " + result.PrimaryIntent + " does not match " + target}
	}
	if result.ConfidenceScore < threshold {
		return &MatchDecision{SkipReason: "intent confidence below threshold"}
	}

	confidence := result.ConfidenceScore
	decision := &MatchDecision{
		Matched:    true,
		Confidence: &confidence,
		Reason: &models.TriggerReason{
			MatchKind:  "intent",
			Expected:   target,
			Actual:     result.PrimaryIntent,
			Confidence: &confidence,
		},
	}
	if result.HasConflict {
		decision.Reason.Detail = "intent conflicts with recorded disposition"
	}
	return decision
}

func (c *Classifier) matchSemantic(automation *models.Automation, target string, actx *analysis.Context) *MatchDecision {
	if actx.Disposition == nil {
		return &MatchDecision{SkipReason: "no disposition categorization available"}
	}

	threshold := conditionThreshold(automation.TriggerConditions, defaultSemanticThreshold)
	result := actx.Disposition

	if !strings.EqualFold(result.Category, target) {
		return &MatchDecision{SkipReason: "disposition category " + result.Category + " does not match " + target}
	}
	if result.Confidence < threshold {
		return &MatchDecision{SkipReason: "category confidence below threshold"}
	}

	confidence := result.Confidence
	return &MatchDecision{
		Matched:    true,
		Confidence: &confidence,
		Reason: &models.TriggerReason{
			MatchKind:  "semantic",
			Expected:   target,
			Actual:     result.Category,
			Confidence: &confidence,
		},
	}
}

func (c *Classifier) matchCombined(ctx context.Context, automation *models.Automation, actx *analysis.Context) (*MatchDecision, error) {
	if c.combined == nil {
		return &MatchDecision{SkipReason: "no combined evaluator configured"}, nil
	}

	evaluation, err := c.combined.Evaluate(ctx, automation.TriggerConditions, actx)
	if err != nil {
		return nil, err
	}
	if !evaluation.Triggered {
		return &MatchDecision{SkipReason: evaluation.SkipReason}, nil
	}

	decision := &MatchDecision{
		Matched: true,
		Reason: &models.TriggerReason{
			MatchKind: "combined",
			Detail:    strings.Join(evaluation.MatchedConditions, ","),
		},
	}
	if lowest, ok := lowestConfidence(evaluation.ConfidenceScores); ok {
		decision.Confidence = &lowest
		decision.Reason.Confidence = &lowest
	}
	return decision, nil
}

// matchStandard matches a literal trigger type: the event shape must agree
// with the trigger, disposition_* triggers additionally match the recorded
// disposition, and the declared conditions must all hold.
func (c *Classifier) matchStandard(automation *models.Automation, event *models.TriggerEvent) *MatchDecision {
	if strings.HasPrefix(automation.TriggerType, "disposition_") {
		return c.matchDisposition(automation, event)
	}

	if !eventShapeMatches(automation.TriggerType, event) {
		return &MatchDecision{SkipReason: "event shape does not match " + automation.TriggerType}
	}

	if !c.conditions.CheckConditions(automation.TriggerConditions, event.Payload) {
		return &MatchDecision{SkipReason: "conditions not met"}
	}

	return &MatchDecision{
		Matched: true,
		Reason: &models.TriggerReason{
			MatchKind: "standard",
			Expected:  automation.TriggerType,
			Actual:    event.TriggerType,
		},
	}
}

// matchDisposition matches disposition_<X> triggers: X must appear in the
// recorded disposition name (case-insensitive substring) or equal the
// recorded disposition category exactly. Declared conditions still apply.
func (c *Classifier) matchDisposition(automation *models.Automation, event *models.TriggerEvent) *MatchDecision {
	target := strings.TrimPrefix(automation.TriggerType, "disposition_")
	targetPhrase := strings.ReplaceAll(target, "_", " ")

	name := event.PayloadString("disposition_name")
	category := event.PayloadString("disposition_category")

	nameMatch := containsFold(name, targetPhrase)
	categoryMatch := category != "" && strings.EqualFold(category, target)

	if !nameMatch && !categoryMatch {
		return &MatchDecision{SkipReason: "disposition does not match " + target}
	}

	if !c.conditions.CheckConditions(automation.TriggerConditions, event.Payload) {
		return &MatchDecision{SkipReason: "conditions not met"}
	}

	actual := name
	if !nameMatch {
		actual = category
	}
	return &MatchDecision{
		Matched: true,
		Reason: &models.TriggerReason{
			MatchKind: "disposition",
			Expected:  target,
			Actual:    actual,
		},
	}
}

// eventShapeChecks maps standard trigger types to the payload shape that
// implies them. Used in intelligent mode, where the event carries no trigger
// type and each automation decides its own applicability.
var eventShapeChecks = map[string]func(event *models.TriggerEvent) bool{
	"call_answered":   payloadFieldEquals("call_status", "answered"),
	"call_missed":     payloadFieldIn("call_status", "missed", "no_answer"),
	"call_voicemail":  payloadFieldEquals("call_status", "voicemail"),
	"call_completed":  payloadFieldEquals("call_status", "completed"),
	"call_disposition": func(e *models.TriggerEvent) bool {
		return e.PayloadString("disposition_name") != ""
	},
	"email_opened":       payloadFieldEquals("event", "opened"),
	"email_clicked":      payloadFieldEquals("event", "clicked"),
	"email_bounced":      payloadFieldEquals("event", "bounced"),
	"email_unsubscribed": payloadFieldEquals("event", "unsubscribed"),
	"email_replied": func(e *models.TriggerEvent) bool {
		return e.PayloadString("reply_content") != "" || e.PayloadString("event") == "replied"
	},
	"link_clicked": func(e *models.TriggerEvent) bool {
		return e.PayloadString("link_url") != "" || e.PayloadString("clicked_url") != ""
	},
	"sms_delivered": payloadFieldEquals("event", "delivered"),
	"sms_failed":    payloadFieldEquals("event", "failed"),
	"sms_opt_out":   payloadFieldIn("event", "opt_out", "opted_out"),
	"sms_reply": func(e *models.TriggerEvent) bool {
		return e.PayloadString("message") != "" || e.PayloadString("reply_content") != ""
	},
	"form_submitted": func(e *models.TriggerEvent) bool {
		if _, ok := e.Payload["form_data"].(map[string]interface{}); ok {
			return true
		}
		_, ok := e.Payload["fields"].(map[string]interface{})
		return ok
	},
	"message_received":        payloadFieldEquals("event", "received"),
	"message_read":            payloadFieldEquals("event", "read"),
	"message_failed":          payloadFieldEquals("event", "failed"),
	"appointment_booked":      payloadFieldEquals("event", "booked"),
	"appointment_rescheduled": payloadFieldEquals("event", "rescheduled"),
	"appointment_cancelled":   payloadFieldEquals("event", "cancelled"),
	"appointment_no_show":     payloadFieldEquals("event", "no_show"),
	"appointment_completed":   payloadFieldEquals("event", "completed"),
}

// eventShapeMatches reports whether the event plausibly represents the given
// trigger type. A literal trigger-type match on the event always passes; an
// untyped event passes only when a registered shape check confirms it.
func eventShapeMatches(triggerType string, event *models.TriggerEvent) bool {
	if event.TriggerType == triggerType {
		if check, ok := eventShapeChecks[triggerType]; ok {
			return check(event)
		}
		return true
	}
	if event.TriggerType != "" {
		return false
	}
	check, ok := eventShapeChecks[triggerType]
	if !ok {
		return false
	}
	return check(event)
}

func payloadFieldEquals(key, want string) func(event *models.TriggerEvent) bool {
	return func(e *models.TriggerEvent) bool {
		return strings.EqualFold(e.PayloadString(key), want)
	}
}

func payloadFieldIn(key string, want ...string) func(event *models.TriggerEvent) bool {
	return func(e *models.TriggerEvent) bool {
		got := e.PayloadString(key)
		for _, w := range want {
			if strings.EqualFold(got, w) {
				return true
			}
		}
		return false
	}
}

// conditionThreshold reads a confidence_threshold override from the trigger
// conditions, falling back to the category default
func conditionThreshold(conditions models.JSONB, fallback float64) float64 {
	if conditions == nil {
		return fallback
	}
	if v, ok := toFloat64(conditions["confidence_threshold"]); ok {
		return v
	}
	return fallback
}

// lowestConfidence returns the weakest score among matched conditions, the
// conservative confidence to report for a combined match
func lowestConfidence(scores map[string]float64) (float64, bool) {
	var lowest float64
	found := false
	for _, score := range scores {
		if !found || score < lowest {
			lowest = score
			found = true
		}
	}
	return lowest, found
}

package analysis

import (
	"context"
	"strings"
)

// Canonical disposition categories
const (
	CategoryInterested    = "interested"
	CategoryNotInterested = "not_interested"
	CategoryCallback      = "callback"
	CategoryVoicemail     = "voicemail"
	CategoryNoAnswer      = "no_answer"
	CategoryWrongNumber   = "wrong_number"
	CategoryDoNotCall     = "do_not_call"
	CategoryMeetingBooked = "meeting_booked"
	CategoryOther         = "other"
)

// RuleSemanticMatcher maps free-form disposition names onto the canonical
// category set with a normalized keyword table. Exact name matches score
// highest, then substring matches, then token overlap.
type RuleSemanticMatcher struct{}

// NewRuleSemanticMatcher creates the rule-based disposition categorizer
func NewRuleSemanticMatcher() *RuleSemanticMatcher {
	return &RuleSemanticMatcher{}
}

// categoryKeywords maps each category to the phrases that imply it. Order
// matters: more specific categories are listed before broader ones so
// "not interested" never lands on "interested".
var categoryKeywords = []struct {
	category string
	phrases  []string
}{
	{CategoryDoNotCall, []string{"do not call", "dnc", "remove", "stop"}},
	{CategoryNotInterested, []string{"not interested", "no interest", "declined", "rejected"}},
	{CategoryWrongNumber, []string{"wrong number", "bad number", "disconnected", "invalid"}},
	{CategoryMeetingBooked, []string{"meeting booked", "appointment set", "demo scheduled", "booked"}},
	{CategoryCallback, []string{"callback", "call back", "call again", "follow up later", "busy"}},
	{CategoryVoicemail, []string{"voicemail", "left message", "left vm", "answering machine"}},
	{CategoryNoAnswer, []string{"no answer", "no response", "unreachable", "missed"}},
	{CategoryInterested, []string{"interested", "hot lead", "warm", "wants info", "positive"}},
}

// CategorizeDisposition assigns a canonical category to a disposition name
func (m *RuleSemanticMatcher) CategorizeDisposition(ctx context.Context, name string) (*DispositionCategory, error) {
	normalized := normalizeDisposition(name)
	if normalized == "" {
		return &DispositionCategory{Category: CategoryOther, Confidence: 0}, nil
	}

	for _, entry := range categoryKeywords {
		for _, phrase := range entry.phrases {
			if normalized == phrase {
				return &DispositionCategory{Category: entry.category, Confidence: 95}, nil
			}
			if strings.Contains(normalized, phrase) {
				return &DispositionCategory{Category: entry.category, Confidence: 80}, nil
			}
		}
	}

	// Token-level fallback: any shared token with a category phrase counts
	tokens := strings.Fields(normalized)
	for _, entry := range categoryKeywords {
		for _, phrase := range entry.phrases {
			for _, token := range tokens {
				if len(token) >= 4 && strings.Contains(phrase, token) {
					return &DispositionCategory{Category: entry.category, Confidence: 60}, nil
				}
			}
		}
	}

	return &DispositionCategory{Category: CategoryOther, Confidence: 40}, nil
}

// normalizeDisposition lowercases and collapses separators so names like
// "Interested - Callback" and "interested_callback" compare equal
func normalizeDisposition(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer("_", " ", "-", " ", "/", " ", ".", " ")
	return strings.Join(strings.Fields(replacer.Replace(lower)), " ")
}

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ronittamrakar/Xordon-sub011/pkg/llm"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// Canonical intents produced by intent detection
const (
	IntentInterested        = "interested"
	IntentNotInterested     = "not_interested"
	IntentCallbackRequested = "callback_requested"
	IntentQuestion          = "question"
	IntentComplaint         = "complaint"
	IntentUnsubscribe       = "unsubscribe"
	IntentUnknown           = "unknown"
)

const intentSystemPrompt = `You extract the primary intent from short CRM notes and message replies.
Valid intents: interested, not_interested, callback_requested, question, complaint, unsubscribe, unknown.
Respond with a single JSON object and nothing else:
{"intent": "<one of the valid intents>", "confidence": <0-100>}`

// LLMIntentDetector detects intent with an LLM provider
type LLMIntentDetector struct {
	client llm.Client
	model  string
	logger *logger.Logger
}

// NewLLMIntentDetector creates an LLM-backed intent detector
func NewLLMIntentDetector(client llm.Client, model string, log *logger.Logger) *LLMIntentDetector {
	return &LLMIntentDetector{client: client, model: model, logger: log}
}

// DetectIntent extracts the primary intent from text. The disposition, when
// present, is used to flag conflicts between what the agent recorded and what
// the text says.
func (d *LLMIntentDetector) DetectIntent(ctx context.Context, text, dispositionName, dispositionCategory string) (*IntentResult, error) {
	if strings.TrimSpace(text) == "" {
		return &IntentResult{PrimaryIntent: IntentUnknown, ConfidenceScore: 0}, nil
	}

	resp, err := d.client.Chat(ctx, &llm.ChatRequest{
		Model:        d.model,
		SystemPrompt: intentSystemPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: text}},
		MaxTokens:    128,
	})
	if err != nil {
		return nil, fmt.Errorf("intent detection failed: %w", err)
	}

	var out struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(resp.Content)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse intent response: %w", err)
	}

	result := &IntentResult{
		PrimaryIntent:   out.Intent,
		ConfidenceScore: clampScore(out.Confidence),
	}
	result.HasConflict = intentConflictsWithDisposition(result.PrimaryIntent, dispositionName, dispositionCategory)

	return result, nil
}

// LexiconIntentDetector is the keyword fallback used when no LLM provider is
// configured
type LexiconIntentDetector struct{}

// NewLexiconIntentDetector creates the lexicon fallback detector
func NewLexiconIntentDetector() *LexiconIntentDetector {
	return &LexiconIntentDetector{}
}

// intentTerms is checked in order; the first intent with a matching term wins.
// More specific intents come before broader ones.
var intentTerms = []struct {
	intent string
	terms  []string
}{
	{IntentUnsubscribe, []string{"unsubscribe", "remove me", "stop texting", "stop calling", "take me off"}},
	{IntentComplaint, []string{"complaint", "terrible", "awful", "report", "scam"}},
	{IntentCallbackRequested, []string{"call me back", "call back", "call later", "reach me", "try again at"}},
	{IntentNotInterested, []string{"not interested", "no thanks", "no thank you", "pass"}},
	{IntentQuestion, []string{"?", "how much", "what is", "when can", "pricing"}},
	{IntentInterested, []string{"interested", "tell me more", "sounds good", "sign me up", "yes"}},
}

// DetectIntent scores text against the intent lexicons
func (d *LexiconIntentDetector) DetectIntent(ctx context.Context, text, dispositionName, dispositionCategory string) (*IntentResult, error) {
	lower := strings.ToLower(text)

	for _, entry := range intentTerms {
		for _, term := range entry.terms {
			if strings.Contains(lower, term) {
				result := &IntentResult{
					PrimaryIntent:   entry.intent,
					ConfidenceScore: 75,
				}
				result.HasConflict = intentConflictsWithDisposition(entry.intent, dispositionName, dispositionCategory)
				return result, nil
			}
		}
	}

	return &IntentResult{PrimaryIntent: IntentUnknown, ConfidenceScore: 30}, nil
}

// intentConflictsWithDisposition flags the two hard contradictions that
// matter for routing: text says interested while the disposition says not,
// and the reverse.
func intentConflictsWithDisposition(intent, dispositionName, dispositionCategory string) bool {
	disposition := strings.ToLower(dispositionCategory)
	if disposition == "" {
		disposition = strings.ToLower(dispositionName)
	}
	if disposition == "" {
		return false
	}

	positiveDisposition := strings.Contains(disposition, "interested") && !strings.Contains(disposition, "not")
	negativeDisposition := strings.Contains(disposition, "not_interested") ||
		strings.Contains(disposition, "not interested") ||
		strings.Contains(disposition, "do_not_call") ||
		strings.Contains(disposition, "do not call")

	switch intent {
	case IntentInterested:
		return negativeDisposition
	case IntentNotInterested, IntentUnsubscribe:
		return positiveDisposition
	}
	return false
}

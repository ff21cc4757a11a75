package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ronittamrakar/Xordon-sub011/pkg/llm"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

const sentimentSystemPrompt = `You classify the sentiment of short CRM notes and message replies.
Respond with a single JSON object and nothing else:
{"sentiment": "positive"|"neutral"|"negative", "confidence": <0-100>}`

// LLMSentimentAnalyzer classifies sentiment with an LLM provider
type LLMSentimentAnalyzer struct {
	client llm.Client
	model  string
	logger *logger.Logger
}

// NewLLMSentimentAnalyzer creates an LLM-backed sentiment analyzer
func NewLLMSentimentAnalyzer(client llm.Client, model string, log *logger.Logger) *LLMSentimentAnalyzer {
	return &LLMSentimentAnalyzer{client: client, model: model, logger: log}
}

// Analyze classifies the sentiment of text
func (a *LLMSentimentAnalyzer) Analyze(ctx context.Context, text string) (*SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return &SentimentResult{Sentiment: SentimentNeutral, ConfidenceScore: 0}, nil
	}

	resp, err := a.client.Chat(ctx, &llm.ChatRequest{
		Model:        a.model,
		SystemPrompt: sentimentSystemPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: text}},
		MaxTokens:    128,
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment analysis failed: %w", err)
	}

	var out struct {
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(resp.Content)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse sentiment response: %w", err)
	}

	switch out.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return nil, fmt.Errorf("unexpected sentiment label: %q", out.Sentiment)
	}

	return &SentimentResult{Sentiment: out.Sentiment, ConfidenceScore: clampScore(out.Confidence)}, nil
}

// LexiconSentimentAnalyzer is the keyword fallback used when no LLM provider
// is configured
type LexiconSentimentAnalyzer struct{}

// NewLexiconSentimentAnalyzer creates the lexicon fallback analyzer
func NewLexiconSentimentAnalyzer() *LexiconSentimentAnalyzer {
	return &LexiconSentimentAnalyzer{}
}

var positiveTerms = []string{
	"interested", "great", "yes", "perfect", "sounds good", "love", "definitely",
	"call me back", "send me", "sign me up", "excited", "thanks", "thank you",
}

var negativeTerms = []string{
	"not interested", "no thanks", "stop", "remove me", "unsubscribe", "never",
	"angry", "complaint", "wrong number", "do not call", "don't call", "waste",
}

// Analyze scores text against the positive/negative lexicons
func (a *LexiconSentimentAnalyzer) Analyze(ctx context.Context, text string) (*SentimentResult, error) {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, term := range positiveTerms {
		if strings.Contains(lower, term) {
			pos++
		}
	}
	for _, term := range negativeTerms {
		if strings.Contains(lower, term) {
			neg++
		}
	}

	switch {
	case neg > pos:
		return &SentimentResult{Sentiment: SentimentNegative, ConfidenceScore: lexiconConfidence(neg)}, nil
	case pos > neg:
		return &SentimentResult{Sentiment: SentimentPositive, ConfidenceScore: lexiconConfidence(pos)}, nil
	default:
		return &SentimentResult{Sentiment: SentimentNeutral, ConfidenceScore: 50}, nil
	}
}

// lexiconConfidence maps hit counts to a bounded confidence score
func lexiconConfidence(hits int) float64 {
	score := 60 + float64(hits)*10
	if score > 95 {
		score = 95
	}
	return score
}

// extractJSONObject strips code fences and surrounding prose from a model
// response, returning the first {...} block
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

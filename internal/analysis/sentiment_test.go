package analysis

import (
	"context"
	"testing"
)

func TestLexiconSentimentAnalyzer(t *testing.T) {
	analyzer := NewLexiconSentimentAnalyzer()

	tests := []struct {
		name          string
		text          string
		wantSentiment string
	}{
		{
			name:          "positive terms win",
			text:          "Yes, I'm interested, this sounds good",
			wantSentiment: SentimentPositive,
		},
		{
			name:          "negative terms win",
			text:          "Not interested, remove me from your list",
			wantSentiment: SentimentNegative,
		},
		{
			name:          "opt-out language reads negative",
			text:          "stop, do not call this number again",
			wantSentiment: SentimentNegative,
		},
		{
			name:          "no lexicon hits stays neutral",
			text:          "I will check my calendar",
			wantSentiment: SentimentNeutral,
		},
		{
			name:          "empty text stays neutral",
			text:          "",
			wantSentiment: SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := analyzer.Analyze(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if result.Sentiment != tt.wantSentiment {
				t.Errorf("sentiment = %s, want %s", result.Sentiment, tt.wantSentiment)
			}
		})
	}
}

func TestLexiconSentimentConfidence(t *testing.T) {
	analyzer := NewLexiconSentimentAnalyzer()

	result, err := analyzer.Analyze(context.Background(), "interested, sounds good, sign me up, excited")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.Sentiment != SentimentPositive {
		t.Fatalf("sentiment = %s, want positive", result.Sentiment)
	}
	if result.ConfidenceScore <= 60 {
		t.Errorf("confidence = %.0f, want above the single-hit floor", result.ConfidenceScore)
	}
	if result.ConfidenceScore > 95 {
		t.Errorf("confidence = %.0f, want capped at 95", result.ConfidenceScore)
	}

	neutral, err := analyzer.Analyze(context.Background(), "calendar invite attached")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if neutral.ConfidenceScore != 50 {
		t.Errorf("neutral confidence = %.0f, want 50", neutral.ConfidenceScore)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object unchanged",
			in:   `{"sentiment":"positive"}`,
			want: `{"sentiment":"positive"}`,
		},
		{
			name: "code fence stripped",
			in:   "```json\n{\"sentiment\":\"negative\"}\n```",
			want: `{"sentiment":"negative"}`,
		},
		{
			name: "surrounding prose stripped",
			in:   `Here is the result: {"sentiment":"neutral"} hope that helps`,
			want: `{"sentiment":"neutral"}`,
		},
		{
			name: "no object returns input",
			in:   "no json here",
			want: "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.in); got != tt.want {
				t.Errorf("extractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

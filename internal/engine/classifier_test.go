package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/ronittamrakar/Xordon-sub011/internal/analysis"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// Mock analyzers with func fields

type mockSentiment struct {
	analyzeFunc func(ctx context.Context, text string) (*analysis.SentimentResult, error)
	calls       int
}

func (m *mockSentiment) Analyze(ctx context.Context, text string) (*analysis.SentimentResult, error) {
	m.calls++
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, text)
	}
	return &analysis.SentimentResult{Sentiment: analysis.SentimentNeutral, ConfidenceScore: 50}, nil
}

type mockIntent struct {
	detectFunc func(ctx context.Context, text, dispositionName, dispositionCategory string) (*analysis.IntentResult, error)
	calls      int
}

func (m *mockIntent) DetectIntent(ctx context.Context, text, dispositionName, dispositionCategory string) (*analysis.IntentResult, error) {
	m.calls++
	if m.detectFunc != nil {
		return m.detectFunc(ctx, text, dispositionName, dispositionCategory)
	}
	return &analysis.IntentResult{PrimaryIntent: analysis.IntentUnknown, ConfidenceScore: 0}, nil
}

type mockSemantic struct {
	categorizeFunc func(ctx context.Context, name string) (*analysis.DispositionCategory, error)
	calls          int
}

func (m *mockSemantic) CategorizeDisposition(ctx context.Context, name string) (*analysis.DispositionCategory, error) {
	m.calls++
	if m.categorizeFunc != nil {
		return m.categorizeFunc(ctx, name)
	}
	return &analysis.DispositionCategory{Category: "other", Confidence: 40}, nil
}

func sentimentContext(sentiment string, confidence float64) *analysis.Context {
	return &analysis.Context{
		Sentiment: &analysis.SentimentResult{Sentiment: sentiment, ConfidenceScore: confidence},
		Payload:   map[string]interface{}{},
	}
}

func automationWithTrigger(triggerType string, conditions models.JSONB) *models.Automation {
	return &models.Automation{
		Name:              "test automation",
		Channel:           models.ChannelCall,
		TriggerType:       triggerType,
		TriggerConditions: conditions,
	}
}

func TestMatchSentimentTrigger(t *testing.T) {
	classifier := NewClassifier(nil, nil, nil, nil, logger.NewForTesting())
	ctx := context.Background()
	event := &models.TriggerEvent{Channel: models.ChannelCall}

	t.Run("matches above default threshold", func(t *testing.T) {
		actx := sentimentContext(analysis.SentimentPositive, 85)
		decision, err := classifier.Match(ctx, automationWithTrigger("sentiment_positive", nil), event, actx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decision.Matched {
			t.Fatalf("expected match, got skip: %s", decision.SkipReason)
		}
		if decision.Confidence == nil || *decision.Confidence != 85 {
			t.Errorf("expected confidence 85, got %v", decision.Confidence)
		}
		if decision.Reason.MatchKind != "sentiment" {
			t.Errorf("expected match kind sentiment, got %s", decision.Reason.MatchKind)
		}
	})

	t.Run("below default threshold does not match", func(t *testing.T) {
		actx := sentimentContext(analysis.SentimentPositive, 65)
		decision, _ := classifier.Match(ctx, automationWithTrigger("sentiment_positive", nil), event, actx)
		if decision.Matched {
			t.Error("expected no match below default threshold 70")
		}
	})

	t.Run("raised threshold rejects mid confidence", func(t *testing.T) {
		actx := sentimentContext(analysis.SentimentPositive, 70)
		conditions := models.JSONB{"confidence_threshold": 80}
		decision, _ := classifier.Match(ctx, automationWithTrigger("sentiment_positive", conditions), event, actx)
		if decision.Matched {
			t.Error("expected no match with confidence 70 against threshold 80")
		}
	})

	t.Run("wrong sentiment does not match", func(t *testing.T) {
		actx := sentimentContext(analysis.SentimentNegative, 95)
		decision, _ := classifier.Match(ctx, automationWithTrigger("sentiment_positive", nil), event, actx)
		if decision.Matched {
			t.Error("expected no match for negative sentiment")
		}
	})

	t.Run("no analysis available does not match", func(t *testing.T) {
		actx := &analysis.Context{Payload: map[string]interface{}{}}
		decision, _ := classifier.Match(ctx, automationWithTrigger("sentiment_positive", nil), event, actx)
		if decision.Matched {
			t.Error("expected no match without sentiment analysis")
		}
	})
}

func TestMatchIntentTrigger(t *testing.T) {
	classifier := NewClassifier(nil, nil, nil, nil, logger.NewForTesting())
	ctx := context.Background()
	event := &models.TriggerEvent{Channel: models.ChannelSMS}

	actx := &analysis.Context{
		Intent:  &analysis.IntentResult{PrimaryIntent: analysis.IntentCallbackRequested, ConfidenceScore: 75, HasConflict: true},
		Payload: map[string]interface{}{},
	}

	decision, err := classifier.Match(ctx, automationWithTrigger("intent_callback_requested", nil), event, actx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Matched {
		t.Fatalf("expected match, got skip: %s", decision.SkipReason)
	}
	if decision.Reason.Detail == "" {
		t.Error("expected conflict detail on reason")
	}
}

func TestMatchSemanticTrigger(t *testing.T) {
	classifier := NewClassifier(nil, nil, nil, nil, logger.NewForTesting())
	ctx := context.Background()
	event := &models.TriggerEvent{Channel: models.ChannelCall}

	t.Run("semantic default threshold is sixty", func(t *testing.T) {
		actx := &analysis.Context{
			Disposition: &analysis.DispositionCategory{Category: "interested", Confidence: 62},
			Payload:     map[string]interface{}{},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("semantic_interested", nil), event, actx)
		if !decision.Matched {
			t.Fatalf("expected match at confidence 62 with default threshold 60, got: %s", decision.SkipReason)
		}
	})

	t.Run("below semantic threshold", func(t *testing.T) {
		actx := &analysis.Context{
			Disposition: &analysis.DispositionCategory{Category: "interested", Confidence: 55},
			Payload:     map[string]interface{}{},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("semantic_interested", nil), event, actx)
		if decision.Matched {
			t.Error("expected no match at confidence 55")
		}
	})
}

func TestMatchCombinedTrigger(t *testing.T) {
	classifier := NewClassifier(nil, nil, nil, analysis.NewCombinedEvaluator(), logger.NewForTesting())
	ctx := context.Background()
	event := &models.TriggerEvent{Channel: models.ChannelCall}

	actx := &analysis.Context{
		Sentiment: &analysis.SentimentResult{Sentiment: analysis.SentimentPositive, ConfidenceScore: 90},
		Intent:    &analysis.IntentResult{PrimaryIntent: analysis.IntentInterested, ConfidenceScore: 80},
		Payload:   map[string]interface{}{},
	}

	conditions := models.JSONB{"sentiment": "positive", "intent": "interested"}
	decision, err := classifier.Match(ctx, automationWithTrigger("combined_conditions", conditions), event, actx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Matched {
		t.Fatalf("expected combined match, got: %s", decision.SkipReason)
	}
	// Reported confidence is the weakest matched condition
	if decision.Confidence == nil || *decision.Confidence != 80 {
		t.Errorf("expected confidence 80, got %v", decision.Confidence)
	}
}

func TestMatchDispositionTrigger(t *testing.T) {
	classifier := NewClassifier(nil, nil, nil, nil, logger.NewForTesting())
	ctx := context.Background()

	t.Run("substring match on disposition name", func(t *testing.T) {
		event := &models.TriggerEvent{
			Channel:     models.ChannelCall,
			TriggerType: "disposition_interested",
			Payload:     map[string]interface{}{"disposition_name": "Interested - callback"},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("disposition_interested", nil), event, nil)
		if !decision.Matched {
			t.Fatalf("expected substring disposition match, got: %s", decision.SkipReason)
		}
		if decision.Reason.MatchKind != "disposition" {
			t.Errorf("expected match kind disposition, got %s", decision.Reason.MatchKind)
		}
	})

	t.Run("exact match on disposition category", func(t *testing.T) {
		event := &models.TriggerEvent{
			Channel:     models.ChannelCall,
			TriggerType: "disposition_not_interested",
			Payload: map[string]interface{}{
				"disposition_name":     "Hard no",
				"disposition_category": "not_interested",
			},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("disposition_not_interested", nil), event, nil)
		if !decision.Matched {
			t.Fatalf("expected category disposition match, got: %s", decision.SkipReason)
		}
	})

	t.Run("no disposition data does not match", func(t *testing.T) {
		event := &models.TriggerEvent{
			Channel:     models.ChannelCall,
			TriggerType: "disposition_interested",
			Payload:     map[string]interface{}{},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("disposition_interested", nil), event, nil)
		if decision.Matched {
			t.Error("expected no match without disposition data")
		}
	})

	t.Run("declared conditions still apply", func(t *testing.T) {
		event := &models.TriggerEvent{
			Channel:     models.ChannelCall,
			TriggerType: "disposition_interested",
			Payload: map[string]interface{}{
				"disposition_name": "Interested",
				"call_duration":    10,
			},
		}
		conditions := models.JSONB{"call_duration_min": 30}
		decision, _ := classifier.Match(ctx, automationWithTrigger("disposition_interested", conditions), event, nil)
		if decision.Matched {
			t.Error("expected conditions to reject the match")
		}
	})
}

func TestMatchStandardTrigger(t *testing.T) {
	classifier := NewClassifier(nil, nil, nil, nil, logger.NewForTesting())
	ctx := context.Background()

	t.Run("untyped event matches via shape check", func(t *testing.T) {
		event := &models.TriggerEvent{
			Channel: models.ChannelCall,
			Payload: map[string]interface{}{"call_status": "answered"},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("call_answered", nil), event, nil)
		if !decision.Matched {
			t.Fatalf("expected shape match, got: %s", decision.SkipReason)
		}
	})

	t.Run("untyped event with wrong shape does not match", func(t *testing.T) {
		event := &models.TriggerEvent{
			Channel: models.ChannelCall,
			Payload: map[string]interface{}{"call_status": "missed"},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("call_answered", nil), event, nil)
		if decision.Matched {
			t.Error("expected no match for missed call against call_answered")
		}
	})

	t.Run("typed event with contradicting shape does not match", func(t *testing.T) {
		event := &models.TriggerEvent{
			Channel:     models.ChannelCall,
			TriggerType: "call_answered",
			Payload:     map[string]interface{}{"call_status": "voicemail"},
		}
		decision, _ := classifier.Match(ctx, automationWithTrigger("call_answered", nil), event, nil)
		if decision.Matched {
			t.Error("expected shape check to reject contradicting payload")
		}
	})
}

func TestBuildContext(t *testing.T) {
	t.Run("runs each analyzer once and bundles results", func(t *testing.T) {
		sentiment := &mockSentiment{analyzeFunc: func(ctx context.Context, text string) (*analysis.SentimentResult, error) {
			return &analysis.SentimentResult{Sentiment: analysis.SentimentPositive, ConfidenceScore: 88}, nil
		}}
		intent := &mockIntent{}
		semantic := &mockSemantic{categorizeFunc: func(ctx context.Context, name string) (*analysis.DispositionCategory, error) {
			return &analysis.DispositionCategory{Category: "interested", Confidence: 80}, nil
		}}
		classifier := NewClassifier(sentiment, intent, semantic, nil, logger.NewForTesting())

		event := &models.TriggerEvent{
			Channel: models.ChannelCall,
			Payload: map[string]interface{}{
				"disposition_name": "Interested",
				"notes":            "wants a demo",
			},
		}

		actx := classifier.BuildContext(context.Background(), event)
		if actx.Sentiment == nil || actx.Sentiment.Sentiment != analysis.SentimentPositive {
			t.Error("expected sentiment result on context")
		}
		if actx.Disposition == nil || actx.Disposition.Category != "interested" {
			t.Error("expected disposition category on context")
		}
		if sentiment.calls != 1 || intent.calls != 1 || semantic.calls != 1 {
			t.Errorf("expected one call per analyzer, got %d/%d/%d", sentiment.calls, intent.calls, semantic.calls)
		}
	})

	t.Run("analyzer failure degrades to absent result", func(t *testing.T) {
		sentiment := &mockSentiment{analyzeFunc: func(ctx context.Context, text string) (*analysis.SentimentResult, error) {
			return nil, errors.New("provider unavailable")
		}}
		classifier := NewClassifier(sentiment, nil, nil, nil, logger.NewForTesting())

		event := &models.TriggerEvent{
			Channel: models.ChannelCall,
			Payload: map[string]interface{}{"notes": "some text"},
		}

		actx := classifier.BuildContext(context.Background(), event)
		if actx.Sentiment != nil {
			t.Error("expected no sentiment result after analyzer failure")
		}
	})

	t.Run("no text skips text analyzers", func(t *testing.T) {
		sentiment := &mockSentiment{}
		intent := &mockIntent{}
		classifier := NewClassifier(sentiment, intent, nil, nil, logger.NewForTesting())

		event := &models.TriggerEvent{
			Channel: models.ChannelCall,
			Payload: map[string]interface{}{"call_status": "answered"},
		}

		classifier.BuildContext(context.Background(), event)
		if sentiment.calls != 0 || intent.calls != 0 {
			t.Errorf("expected no analyzer calls without text, got %d/%d", sentiment.calls, intent.calls)
		}
	})
}

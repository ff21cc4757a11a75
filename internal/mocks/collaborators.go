package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/ronittamrakar/Xordon-sub011/internal/analysis"
	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// QueueProducer records enqueued tasks without touching a broker
type QueueProducer struct {
	mu    sync.Mutex
	Tasks []*engine.QueueTask
	Err   error
}

// NewQueueProducer creates a recording queue producer
func NewQueueProducer() *QueueProducer {
	return &QueueProducer{}
}

// Enqueue records the task and returns a synthetic queue id
func (q *QueueProducer) Enqueue(ctx context.Context, task *engine.QueueTask) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.Err != nil {
		return "", q.Err
	}
	q.Tasks = append(q.Tasks, task)
	return fmt.Sprintf("task-%d", len(q.Tasks)), nil
}

// SentimentAnalyzer returns canned sentiment results via AnalyzeFunc
type SentimentAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, text string) (*analysis.SentimentResult, error)
	Calls       int
}

func (m *SentimentAnalyzer) Analyze(ctx context.Context, text string) (*analysis.SentimentResult, error) {
	m.Calls++
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, text)
	}
	return &analysis.SentimentResult{Sentiment: analysis.SentimentNeutral, ConfidenceScore: 50}, nil
}

// IntentDetector returns canned intent results via DetectFunc
type IntentDetector struct {
	DetectFunc func(ctx context.Context, text, dispositionName, dispositionCategory string) (*analysis.IntentResult, error)
	Calls      int
}

func (m *IntentDetector) DetectIntent(ctx context.Context, text, dispositionName, dispositionCategory string) (*analysis.IntentResult, error) {
	m.Calls++
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, text, dispositionName, dispositionCategory)
	}
	return &analysis.IntentResult{PrimaryIntent: analysis.IntentUnknown, ConfidenceScore: 0}, nil
}

// SemanticMatcher returns canned disposition categories via CategorizeFunc
type SemanticMatcher struct {
	CategorizeFunc func(ctx context.Context, name string) (*analysis.DispositionCategory, error)
	Calls          int
}

func (m *SemanticMatcher) CategorizeDisposition(ctx context.Context, name string) (*analysis.DispositionCategory, error) {
	m.Calls++
	if m.CategorizeFunc != nil {
		return m.CategorizeFunc(ctx, name)
	}
	return &analysis.DispositionCategory{Category: "other", Confidence: 40}, nil
}

// Mailer records sent emails via SendFunc
type Mailer struct {
	SendFunc func(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error)
	Sent     []SentMessage
	mu       sync.Mutex
}

// SentMessage captures one outbound message for assertions
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

func (m *Mailer) SendEmail(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, account, to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{To: to, Subject: subject, Body: body})
	return fmt.Sprintf("msg-%d", len(m.Sent)), nil
}

// SMSSender records sent messages via SendFunc
type SMSSender struct {
	SendFunc func(ctx context.Context, account *models.SendingAccount, to, message string) (string, error)
	Sent     []SentMessage
	mu       sync.Mutex
}

func (m *SMSSender) SendSMS(ctx context.Context, account *models.SendingAccount, to, message string) (string, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, account, to, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{To: to, Body: message})
	return fmt.Sprintf("sms-%d", len(m.Sent)), nil
}

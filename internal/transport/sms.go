package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
	"github.com/ronittamrakar/Xordon-sub011/pkg/metrics"
)

// HTTPSMSSender dispatches SMS through a JSON gateway API. The gateway URL
// and API key come from the process config; the from-number comes from the
// sending account.
type HTTPSMSSender struct {
	gatewayURL string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewHTTPSMSSender creates an SMS gateway client
func NewHTTPSMSSender(gatewayURL, apiKey string, m *metrics.Metrics, log *logger.Logger) *HTTPSMSSender {
	return &HTTPSMSSender{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		metrics:    m,
		logger:     log,
	}
}

type smsRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type smsResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

// SendSMS dispatches one message and returns the gateway's message id
func (s *HTTPSMSSender) SendSMS(ctx context.Context, account *models.SendingAccount, to, message string) (string, error) {
	if s.gatewayURL == "" {
		return "", fmt.Errorf("sms gateway not configured")
	}

	payload, err := json.Marshal(smsRequest{
		From:    account.FromAddress,
		To:      to,
		Message: message,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.countSend("failed")
		return "", fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read sms response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.countSend("failed")
		return "", fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var out smsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse sms response: %w", err)
	}
	if out.Error != "" {
		s.countSend("failed")
		return "", fmt.Errorf("sms gateway error: %s", out.Error)
	}

	s.countSend("sent")
	s.logger.Info("sms dispatched",
		logger.String("to", to),
		logger.String("message_id", out.MessageID),
	)
	return out.MessageID, nil
}

func (s *HTTPSMSSender) countSend(status string) {
	if s.metrics != nil {
		s.metrics.MessagesSent.WithLabelValues(string(models.ChannelSMS), status).Inc()
	}
}

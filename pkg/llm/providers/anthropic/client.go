package anthropic

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/ronittamrakar/Xordon-sub011/pkg/llm"
)

const defaultModel = "claude-3-5-haiku-20241022"

// Client implements the LLM Client interface for Anthropic
type Client struct {
	client *anthropic.Client
	config *llm.Config
}

// NewClient creates a new Anthropic client
func NewClient(config *llm.Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, llm.ErrInvalidAPIKey
	}

	opts := []anthropic.ClientOption{}
	if config.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, anthropic.WithHTTPClient(&http.Client{Timeout: config.Timeout}))
	}

	return &Client{
		client: anthropic.NewClient(config.APIKey, opts...),
		config: config,
	}, nil
}

// Chat sends a chat completion request
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeInvalidRequest, "messages cannot be empty", nil)
	}

	anthropicReq := c.buildRequest(req)

	var resp anthropic.MessagesResponse
	var err error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
		}

		resp, err = c.client.CreateMessages(ctx, anthropicReq)
		if err == nil {
			break
		}
		if !llm.IsRetryable(c.mapError(err)) {
			break
		}
	}

	if err != nil {
		return nil, c.mapError(err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.GetText()
		}
	}

	return &llm.ChatResponse{
		ID:       resp.ID,
		Content:  content,
		Model:    string(resp.Model),
		Provider: llm.ProviderAnthropic,
		Usage: &llm.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
		FinishReason: string(resp.StopReason),
		CreatedAt:    time.Now(),
	}, nil
}

// GetProvider returns the provider type
func (c *Client) GetProvider() llm.Provider {
	return llm.ProviderAnthropic
}

// Close closes the client
func (c *Client) Close() error {
	return nil
}

func (c *Client) buildRequest(req *llm.ChatRequest) anthropic.MessagesRequest {
	model := req.Model
	if model == "" {
		model = c.config.DefaultModel
	}
	if model == "" {
		model = defaultModel
	}

	messages := make([]anthropic.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		// System messages travel in the dedicated field
		if msg.Role == llm.RoleSystem {
			continue
		}
		messages = append(messages, anthropic.Message{
			Role: anthropic.ChatRole(msg.Role),
			Content: []anthropic.MessageContent{
				anthropic.NewTextMessageContent(msg.Content),
			},
		})
	}

	anthropicReq := anthropic.MessagesRequest{
		Model:    anthropic.Model(model),
		Messages: messages,
	}

	if req.SystemPrompt != "" {
		anthropicReq.System = req.SystemPrompt
	}
	if req.MaxTokens > 0 {
		anthropicReq.MaxTokens = req.MaxTokens
	} else {
		anthropicReq.MaxTokens = 1024
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		anthropicReq.Temperature = &temp
	}

	return anthropicReq
}

func (c *Client) mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsInvalidRequestErr():
			return llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeInvalidRequest, apiErr.Message, err)
		case apiErr.IsAuthenticationErr():
			return llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeAuthentication, apiErr.Message, err)
		case apiErr.IsRateLimitErr():
			return llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeRateLimit, apiErr.Message, err)
		case apiErr.IsOverloadedErr():
			return llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeServiceUnavailable, apiErr.Message, err)
		default:
			return llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeUnknown, apiErr.Message, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeTimeout, "request timeout", err)
	}

	return llm.NewError(llm.ProviderAnthropic, llm.ErrorTypeUnknown, err.Error(), err)
}

package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ronittamrakar/Xordon-sub011/pkg/llm"
)

// Client implements the LLM Client interface for OpenAI
type Client struct {
	client *openai.Client
	config *llm.Config
}

// NewClient creates a new OpenAI client
func NewClient(config *llm.Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, llm.ErrInvalidAPIKey
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Chat sends a chat completion request
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeInvalidRequest, "messages cannot be empty", nil)
	}

	openaiReq := c.buildRequest(req)

	var resp openai.ChatCompletionResponse
	var err error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
		}

		resp, err = c.client.CreateChatCompletion(ctx, openaiReq)
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
	var finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}

	return &llm.ChatResponse{
		ID:       resp.ID,
		Content:  content,
		Model:    resp.Model,
		Provider: llm.ProviderOpenAI,
		Usage: &llm.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		FinishReason: finishReason,
		CreatedAt:    time.Unix(int64(resp.Created), 0),
	}, nil
}

// GetProvider returns the provider type
func (c *Client) GetProvider() llm.Provider {
	return llm.ProviderOpenAI
}

// Close closes the client
func (c *Client) Close() error {
	return nil
}

func (c *Client) buildRequest(req *llm.ChatRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = c.config.DefaultModel
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(llm.RoleSystem),
			Content: req.SystemPrompt,
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		openaiReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		openaiReq.Temperature = float32(req.Temperature)
	}

	return openaiReq
}

func (c *Client) mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeAuthentication, apiErr.Message, err)
		case http.StatusTooManyRequests:
			return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeRateLimit, apiErr.Message, err)
		case http.StatusBadRequest:
			return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeInvalidRequest, apiErr.Message, err)
		case http.StatusNotFound:
			return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeModelNotFound, apiErr.Message, err)
		case http.StatusServiceUnavailable, http.StatusBadGateway:
			return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeServiceUnavailable, apiErr.Message, err)
		default:
			return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeUnknown, apiErr.Message, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeTimeout, "request timeout", err)
	}

	return llm.NewError(llm.ProviderOpenAI, llm.ErrorTypeUnknown, err.Error(), err)
}

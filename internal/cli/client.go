package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// Client talks to the followup-engine API on behalf of the CLI
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

// HealthCheck verifies the API is reachable
func (c *Client) HealthCheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API unhealthy (status: %d)", resp.StatusCode)
	}
	return nil
}

// CreateAutomation creates a new automation
func (c *Client) CreateAutomation(automation *AutomationDefinition) (*models.Automation, error) {
	resp, err := c.doRequest("POST", "/api/v1/automations", automation)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create automation: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.Automation
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// ListAutomations retrieves active automations for a channel
func (c *Client) ListAutomations(channel, triggerType string) ([]models.Automation, error) {
	q := url.Values{"channel": {channel}}
	if triggerType != "" {
		q.Set("trigger_type", triggerType)
	}

	resp, err := c.doRequest("GET", "/api/v1/automations?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list automations: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result struct {
		Automations []models.Automation `json:"automations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Automations, nil
}

// TriggerResponse is the API's answer to a reported event
type TriggerResponse struct {
	Matched int               `json:"matched"`
	Results []json.RawMessage `json:"results"`
}

// SendTrigger reports a trigger event on a channel
func (c *Client) SendTrigger(channel string, event map[string]interface{}) (*TriggerResponse, error) {
	resp, err := c.doRequest("POST", "/api/v1/triggers/"+channel, event)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to send trigger: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result TriggerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// ListExecutions retrieves the execution audit trail
func (c *Client) ListExecutions(automationID string, limit int) (*models.ExecutionListResponse, error) {
	q := url.Values{}
	if automationID != "" {
		q.Set("automation_id", automationID)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}

	path := "/api/v1/executions"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list executions: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.ExecutionListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// GetExecution retrieves one execution by id
func (c *Client) GetExecution(id uuid.UUID) (*models.AutomationExecution, error) {
	resp, err := c.doRequest("GET", "/api/v1/executions/"+id.String(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get execution: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.AutomationExecution
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

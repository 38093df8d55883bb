package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Client talks to an OpenAI compatible chat completions endpoint (OpenRouter by default).
type Client struct {
	transport
	apiKey  string
	baseURL string
}

// NewClient builds a chat completions client from the runtime config
func NewClient(c RuntimeConfig) *Client {
	c = c.withDefaults()
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	return &Client{transport: newTransport(c), apiKey: c.APIKey, baseURL: baseURL}
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + "/chat/completions"

	build := func(ctx context.Context) (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("HTTP-Referer", "https://github.com/localnerve/excel-analyzer")
		httpReq.Header.Set("X-Title", "Excel Analyzer")
		return httpReq, nil
	}

	var out GenerateResponse
	requestID, err := c.do(ctx, build, decodeOpenAIError, &out)
	if err != nil {
		return nil, err
	}
	out.RequestID = requestID
	if out.Text() == "" {
		return nil, &EmptyResponseError{}
	}
	return &out, nil
}

func decodeOpenAIError(apiErr *APIError, raw map[string]any) {
	src := raw
	if v, ok := raw["error"].(map[string]any); ok {
		src = v
	}
	if msg, ok := src["message"].(string); ok {
		apiErr.Message = msg
	}
	switch code := src["code"].(type) {
	case string:
		apiErr.Code = code
	case float64:
		apiErr.Code = fmt.Sprintf("%d", int(code))
	}
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Generative Language REST API (models/{model}:generateContent).
type GeminiClient struct {
	transport
	apiKey  string
	baseURL string
}

// NewGeminiClient builds a Gemini client from the runtime config
func NewGeminiClient(c RuntimeConfig) *GeminiClient {
	c = c.withDefaults()
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiURL
	}
	return &GeminiClient{transport: newTransport(c), apiKey: c.APIKey, baseURL: strings.TrimRight(baseURL, "/")}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ResponseID string `json:"responseId"`
}

func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	payload, err := json.Marshal(toGeminiRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(req.Model))

	build := func(ctx context.Context) (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", c.apiKey)
		return httpReq, nil
	}

	var out geminiResponse
	requestID, err := c.do(ctx, build, decodeGeminiError, &out)
	if err != nil {
		return nil, err
	}

	resp := &GenerateResponse{
		ID:        out.ResponseID,
		RequestID: requestID,
		Usage: Usage{
			PromptTokens:     out.UsageMetadata.PromptTokenCount,
			CompletionTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      out.UsageMetadata.TotalTokenCount,
		},
	}
	for _, cand := range out.Candidates {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		resp.Choices = append(resp.Choices, Choice{Message: Message{Role: "assistant", Content: sb.String()}})
	}

	if resp.Text() == "" {
		reason := out.PromptFeedback.BlockReason
		if reason == "" && len(out.Candidates) > 0 {
			reason = out.Candidates[0].FinishReason
		}
		return nil, &EmptyResponseError{Reason: reason}
	}
	return resp, nil
}

func toGeminiRequest(req GenerateRequest) geminiRequest {
	var out geminiRequest
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			if out.SystemInstruction == nil {
				out.SystemInstruction = &geminiContent{}
			}
			out.SystemInstruction.Parts = append(out.SystemInstruction.Parts, geminiPart{Text: m.Content})
		case "assistant", "model":
			out.Contents = append(out.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			out.Contents = append(out.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		out.GenerationConfig = &geminiGenerationConfig{MaxOutputTokens: req.MaxTokens, Temperature: req.Temperature}
	}
	return out
}

// decodeGeminiError reads {"error":{"code":429,"message":"...","status":"RESOURCE_EXHAUSTED"}}
func decodeGeminiError(apiErr *APIError, raw map[string]any) {
	v, ok := raw["error"].(map[string]any)
	if !ok {
		return
	}
	if msg, ok := v["message"].(string); ok {
		apiErr.Message = msg
	}
	if status, ok := v["status"].(string); ok {
		apiErr.Code = status
	}
}

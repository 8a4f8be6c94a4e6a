package genapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/haivivi/chatmux/pkg/convo"
)

const (
	v0BaseURL      = "https://api.v0.dev"
	v0Model        = "v0-1.5-md"
	v0SystemPrompt = "You are an expert coder"
)

var _ UIGenerator = (*V0Client)(nil)

// V0Client generates hosted UI previews through the v0 platform chat API.
// Each call creates a fresh chat and returns its live demo URL.
type V0Client struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

type v0ChatRequest struct {
	Message            string        `json:"message"`
	System             string        `json:"system"`
	ModelConfiguration v0ModelConfig `json:"modelConfiguration"`
}

type v0ModelConfig struct {
	ModelID          string `json:"modelId"`
	ImageGenerations bool   `json:"imageGenerations"`
	Thinking         bool   `json:"thinking"`
}

type v0ChatResponse struct {
	ID     string `json:"id"`
	WebURL string `json:"webUrl"`
	Demo   string `json:"demo"`
	Error  string `json:"error"`
}

func (c *V0Client) GenerateUI(ctx context.Context, prompt string) (*convo.Preview, error) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = v0BaseURL
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(&v0ChatRequest{
		Message: prompt,
		System:  v0SystemPrompt,
		ModelConfiguration: v0ModelConfig{
			ModelID:          v0Model,
			ImageGenerations: true,
			Thinking:         true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chats", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("v0: %s: %s", resp.Status, bytes.TrimSpace(data))
	}

	var chat v0ChatResponse
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("parse chat response: %w", err)
	}
	if chat.Error != "" {
		return nil, fmt.Errorf("v0: %s", chat.Error)
	}

	url := chat.Demo
	if url == "" {
		url = chat.WebURL
	}
	if url == "" {
		return nil, errors.New("v0: chat has no preview url")
	}
	return &convo.Preview{URL: url}, nil
}

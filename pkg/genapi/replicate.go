package genapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/haivivi/chatmux/pkg/convo"
)

const (
	replicateBaseURL    = "https://api.replicate.com"
	replicateImageModel = "openai/gpt-image-1.5"
)

var _ ImageProvider = (*ReplicateImages)(nil)

// ReplicateImages generates images through Replicate's synchronous
// prediction API. Predictions are created with Prefer: wait so the call
// blocks until the image is ready.
type ReplicateImages struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

type replicateInput struct {
	Prompt     string `json:"prompt"`
	NumOutputs int    `json:"num_outputs,omitempty"`
}

type replicatePrediction struct {
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

func (p *ReplicateImages) GenerateImage(ctx context.Context, prompt string, numOutputs int) (*convo.Image, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = replicateBaseURL
	}
	model := p.Model
	if model == "" {
		model = replicateImageModel
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(map[string]any{
		"input": &replicateInput{Prompt: prompt, NumOutputs: numOutputs},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal prediction input: %w", err)
	}

	url := baseURL + "/v1/models/" + model + "/predictions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

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
		return nil, fmt.Errorf("replicate: %s: %s", resp.Status, bytes.TrimSpace(data))
	}

	var pred replicatePrediction
	if err := json.Unmarshal(data, &pred); err != nil {
		return nil, fmt.Errorf("parse prediction: %w", err)
	}
	if pred.Error != "" {
		return nil, fmt.Errorf("replicate: %s", pred.Error)
	}

	outputURL, err := firstOutputURL(pred.Output)
	if err != nil {
		return nil, err
	}
	return p.fetchImage(ctx, client, outputURL, prompt)
}

// firstOutputURL extracts the first file URL from a prediction output,
// which Replicate returns either as a string or a list of strings.
func firstOutputURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("replicate: prediction has no output")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0], nil
	}
	return "", errors.New("replicate: unexpected output shape")
}

func (p *ReplicateImages) fetchImage(ctx context.Context, client *http.Client, url, alt string) (*convo.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch output: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch output: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/png"
	}

	ints := make([]int, len(raw))
	for i, b := range raw {
		ints[i] = int(b)
	}
	return &convo.Image{
		Base64:    base64.StdEncoding.EncodeToString(raw),
		Bytes:     ints,
		MediaType: mediaType,
		Alt:       alt,
	}, nil
}

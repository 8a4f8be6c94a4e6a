package sidechan

import (
	"context"

	"github.com/haivivi/chatmux/pkg/convo"
)

// ImageService provides image generation.
type ImageService struct {
	client *Client
}

// ImageRequest is the body for an image generation call. Provider and
// NumOutputs are optional; the backend defaults them.
type ImageRequest struct {
	Prompt     string `json:"prompt"`
	Provider   string `json:"provider,omitempty"` // "replicate" or "openai"
	NumOutputs int    `json:"numOutputs,omitempty"`
}

// Generate generates an image from a text prompt. The result is the raw
// payload rendered as a data-image part; Alt defaults to the prompt.
func (s *ImageService) Generate(ctx context.Context, req *ImageRequest) (*convo.Image, error) {
	var resp convo.Image
	if err := s.client.http.request(ctx, "POST", "/api/image", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

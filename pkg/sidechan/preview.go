package sidechan

import (
	"context"

	"github.com/haivivi/chatmux/pkg/convo"
)

// PreviewService provides external UI generation.
type PreviewService struct {
	client *Client
}

// PreviewRequest is the body for a UI generation call.
type PreviewRequest struct {
	Prompt string `json:"prompt"`
}

// Generate asks the external UI builder for a page and returns the
// address of the generated preview.
func (s *PreviewService) Generate(ctx context.Context, req *PreviewRequest) (*convo.Preview, error) {
	var resp convo.Preview
	if err := s.client.http.request(ctx, "POST", "/api/v0", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

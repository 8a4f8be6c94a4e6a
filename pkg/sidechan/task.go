package sidechan

import (
	"context"

	"github.com/haivivi/chatmux/pkg/convo"
)

// TaskService provides structured task generation.
type TaskService struct {
	client *Client
}

// TaskRequest is the body for a task generation call.
type TaskRequest struct {
	Prompt string `json:"prompt"`
}

// Generate generates a structured task list from a text prompt.
func (s *TaskService) Generate(ctx context.Context, req *TaskRequest) (*convo.TaskList, error) {
	var resp convo.TaskList
	if err := s.client.http.request(ctx, "POST", "/api/task", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

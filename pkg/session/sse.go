package session

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/haivivi/chatmux/pkg/convo"
)

var _ Streamer = (*SSEStreamer)(nil)

// SSEStreamer streams tokens from a chatmux backend's /api/chat endpoint.
// The wire is Server-Sent Events: one JSON event per data: line, closed by
// a [DONE] marker.
type SSEStreamer struct {
	BaseURL string
	Client  *http.Client
}

// ChatRequest is the body posted to /api/chat.
type ChatRequest struct {
	Messages  []*convo.Message `json:"messages"`
	Model     string           `json:"model"`
	WebSearch bool             `json:"webSearch"`
}

// ChatEvent is one streamed token event.
type ChatEvent struct {
	Kind string `json:"kind"` // "text", "reasoning" or "source-url"
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

const (
	EventKindText      = "text"
	EventKindReasoning = "reasoning"
	EventKindSource    = "source-url"
)

func (g *SSEStreamer) Stream(ctx context.Context, messages []*convo.Message, opts Options) (Stream, error) {
	body, err := json.Marshal(&ChatRequest{
		Messages:  messages,
		Model:     opts.Model,
		WebSearch: opts.WebSearch,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat request failed: %s: %s", resp.Status, bytes.TrimSpace(data))
	}

	return &sseStream{
		reader: bufio.NewReader(resp.Body),
		resp:   resp,
	}, nil
}

type sseStream struct {
	reader *bufio.Reader
	resp   *http.Response
}

func (s *sseStream) Next() (*Chunk, error) {
	data, done, err := s.readEvent()
	if err != nil {
		return nil, err
	}
	if done {
		return nil, ErrDone
	}

	var evt ChatEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("parse chat event: %w", err)
	}
	switch evt.Kind {
	case EventKindReasoning:
		return &Chunk{Kind: ChunkReasoning, Text: evt.Text}, nil
	case EventKindSource:
		return &Chunk{Kind: ChunkSource, URL: evt.URL}, nil
	default:
		return &Chunk{Kind: ChunkText, Text: evt.Text}, nil
	}
}

// readEvent reads the next SSE event. Returns (data, isDone, error).
func (s *sseStream) readEvent() ([]byte, bool, error) {
	var data []byte
	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				// The server closed the stream without sending [DONE].
				return nil, false, io.ErrUnexpectedEOF
			}
			return nil, false, err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			// Empty line marks end of event.
			if len(data) > 0 {
				return data, false, nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			eventData := bytes.TrimSpace(bytes.TrimPrefix(line, []byte("data:")))
			if bytes.Equal(eventData, []byte("[DONE]")) {
				return nil, true, nil
			}
			data = eventData
		}
	}
}

func (s *sseStream) Close() error {
	return s.resp.Body.Close()
}

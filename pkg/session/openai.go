package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/haivivi/chatmux/pkg/convo"
)

var _ Streamer = (*OpenAIStreamer)(nil)

const (
	oaiFinishReasonStop          = "stop"
	oaiFinishReasonLength        = "length"
	oaiFinishReasonContentFilter = "content_filter"
)

// OpenAIStreamer streams chat completions through an OpenAI-compatible API.
// Reasoning deltas (DeepSeek-style reasoning_content) and url_citation
// annotations are surfaced as reasoning and source chunks.
type OpenAIStreamer struct {
	Client *openai.Client
}

func (g *OpenAIStreamer) Stream(ctx context.Context, messages []*convo.Message, opts Options) (Stream, error) {
	params, err := chatParams(messages, opts)
	if err != nil {
		return nil, err
	}
	return &openAIStream{
		stream: g.Client.Chat.Completions.NewStreaming(ctx, params),
	}, nil
}

func chatParams(messages []*convo.Message, opts Options) (openai.ChatCompletionNewParams, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		text := messageText(m)
		switch m.Role {
		case convo.RoleUser:
			msgs = append(msgs, openai.UserMessage(text))
		case convo.RoleAssistant:
			if text == "" {
				continue
			}
			msgs = append(msgs, openai.AssistantMessage(text))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unexpected message role: %s", m.Role)
		}
	}
	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    opts.Model,
	}
	if opts.WebSearch {
		params.SetExtraFields(map[string]any{
			"web_search_options": map[string]any{},
		})
	}
	return params, nil
}

// messageText flattens a message to the text the model should see. Data
// parts contribute their user-visible text only; payload blobs stay local.
func messageText(m *convo.Message) string {
	var sb strings.Builder
	for _, p := range m.Parts {
		switch t := p.(type) {
		case convo.Text:
			sb.WriteString(string(t))
		case *convo.Image:
			fmt.Fprintf(&sb, "[image: %s]", t.Alt)
		case *convo.Preview:
			fmt.Fprintf(&sb, "[preview: %s]", t.URL)
		}
	}
	return sb.String()
}

type openAIStream struct {
	stream  *ssestream.Stream[openai.ChatCompletionChunk]
	pending []*Chunk
	index   int64
	done    bool
}

func (s *openAIStream) Next() (*Chunk, error) {
	for {
		if len(s.pending) > 0 {
			c := s.pending[0]
			s.pending = s.pending[1:]
			return c, nil
		}
		if s.done {
			return nil, ErrDone
		}
		if !s.stream.Next() {
			if err := s.stream.Err(); err != nil {
				return nil, fmt.Errorf("session: stream: %w", err)
			}
			return nil, ErrDone
		}
		if err := s.collect(s.stream.Current()); err != nil {
			return nil, err
		}
	}
}

// collect translates one SSE chunk into zero or more deltas.
func (s *openAIStream) collect(chunk openai.ChatCompletionChunk) error {
	if len(chunk.Choices) == 0 {
		return nil
	}
	var sel *openai.ChatCompletionChunkChoice
	if s.index == 0 {
		s.index = chunk.Choices[0].Index
		sel = &chunk.Choices[0]
	} else {
		for i := range chunk.Choices {
			if chunk.Choices[i].Index == s.index {
				sel = &chunk.Choices[i]
				break
			}
		}
		if sel == nil {
			return nil
		}
	}

	if f, ok := sel.Delta.JSON.ExtraFields["reasoning_content"]; ok {
		var text string
		if err := json.Unmarshal([]byte(f.Raw()), &text); err == nil && text != "" {
			s.pending = append(s.pending, &Chunk{Kind: ChunkReasoning, Text: text})
		}
	}
	if text := sel.Delta.Content; text != "" {
		s.pending = append(s.pending, &Chunk{Kind: ChunkText, Text: text})
	}
	if f, ok := sel.Delta.JSON.ExtraFields["annotations"]; ok {
		var annotations []struct {
			Type        string `json:"type"`
			URLCitation struct {
				URL string `json:"url"`
			} `json:"url_citation"`
		}
		if err := json.Unmarshal([]byte(f.Raw()), &annotations); err == nil {
			for _, a := range annotations {
				if a.Type == "url_citation" && a.URLCitation.URL != "" {
					s.pending = append(s.pending, &Chunk{Kind: ChunkSource, URL: a.URLCitation.URL})
				}
			}
		}
	}

	switch sel.FinishReason {
	case oaiFinishReasonStop, oaiFinishReasonLength:
		s.done = true
	case oaiFinishReasonContentFilter:
		return fmt.Errorf("session: generate blocked: %s", sel.Delta.Refusal)
	}
	if refusal := sel.Delta.Refusal; refusal != "" {
		return fmt.Errorf("session: generate blocked: %s", refusal)
	}
	return nil
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}

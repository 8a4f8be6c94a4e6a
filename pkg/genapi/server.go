package genapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haivivi/chatmux/pkg/convo"
	"github.com/haivivi/chatmux/pkg/session"
)

// ImageProvider generates an image for a prompt.
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string, numOutputs int) (*convo.Image, error)
}

// TaskGenerator produces a structured task list for a prompt.
type TaskGenerator interface {
	GenerateTasks(ctx context.Context, prompt string) (*convo.TaskList, error)
}

// UIGenerator produces a hosted UI preview for a prompt.
type UIGenerator interface {
	GenerateUI(ctx context.Context, prompt string) (*convo.Preview, error)
}

const (
	ProviderReplicate = "replicate"
	ProviderOpenAI    = "openai"
)

// Server routes the chatmux HTTP API to its providers. Any nil provider
// disables the corresponding endpoint with a 500.
type Server struct {
	Chat   session.Streamer
	Images map[string]ImageProvider
	Tasks  TaskGenerator
	UI     UIGenerator

	Logger *slog.Logger
}

func (s *Server) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Handler returns the HTTP handler for the full API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/image", s.handleImage)
	mux.HandleFunc("POST /api/task", s.handleTask)
	mux.HandleFunc("POST /api/v0", s.handleUI)
	return mux
}

type imageRequest struct {
	Prompt     string `json:"prompt"`
	Provider   string `json:"provider"`
	NumOutputs int    `json:"numOutputs"`
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required", "")
		return
	}
	if req.Provider == "" {
		req.Provider = ProviderReplicate
	}
	if req.NumOutputs <= 0 {
		req.NumOutputs = 1
	}

	provider, ok := s.Images[req.Provider]
	if !ok || provider == nil {
		writeError(w, http.StatusBadRequest, "Unknown provider: "+req.Provider, "")
		return
	}

	img, err := provider.GenerateImage(r.Context(), req.Prompt, req.NumOutputs)
	if err != nil {
		s.log().Error("image generation failed", "provider", req.Provider, "error", err)
		writeError(w, http.StatusInternalServerError, "Image generation failed", err.Error())
		return
	}
	if img.Alt == "" {
		img.Alt = req.Prompt
	}
	s.log().Info("image generated", "provider", req.Provider, "mediaType", img.MediaType)
	writeJSON(w, http.StatusOK, img)
}

type taskRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required", "")
		return
	}
	if s.Tasks == nil {
		writeError(w, http.StatusInternalServerError, "Task generation is not configured", "")
		return
	}

	list, err := s.Tasks.GenerateTasks(r.Context(), req.Prompt)
	if err != nil {
		s.log().Error("task generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Task generation failed", err.Error())
		return
	}
	s.log().Info("tasks generated", "count", len(list.Tasks))
	writeJSON(w, http.StatusOK, list)
}

type uiRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	var req uiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required", "")
		return
	}
	if s.UI == nil {
		writeError(w, http.StatusInternalServerError, "UI generation is not configured", "")
		return
	}

	preview, err := s.UI.GenerateUI(r.Context(), req.Prompt)
	if err != nil {
		s.log().Error("ui generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "UI generation failed", err.Error())
		return
	}
	s.log().Info("ui generated", "url", preview.URL)
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req session.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if s.Chat == nil {
		writeError(w, http.StatusInternalServerError, "Chat is not configured", "")
		return
	}

	stream, err := s.Chat.Stream(r.Context(), req.Messages, session.Options{
		Model:     req.Model,
		WebSearch: req.WebSearch,
	})
	if err != nil {
		s.log().Error("chat stream failed to start", "model", req.Model, "error", err)
		writeError(w, http.StatusInternalServerError, "Chat failed", err.Error())
		return
	}
	defer stream.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported", "")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	for {
		chunk, err := stream.Next()
		if err != nil {
			if !errors.Is(err, session.ErrDone) {
				s.log().Error("chat stream aborted", "model", req.Model, "error", err)
			}
			break
		}
		w.Write([]byte("data: "))
		if err := enc.Encode(chatEvent(chunk)); err != nil {
			return
		}
		w.Write([]byte("\n"))
		flusher.Flush()
	}
	w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}

func chatEvent(c *session.Chunk) *session.ChatEvent {
	switch c.Kind {
	case session.ChunkReasoning:
		return &session.ChatEvent{Kind: session.EventKindReasoning, Text: c.Text}
	case session.ChunkSource:
		return &session.ChatEvent{Kind: session.EventKindSource, URL: c.URL}
	default:
		return &session.ChatEvent{Kind: session.EventKindText, Text: c.Text}
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, &errorResponse{Error: msg, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

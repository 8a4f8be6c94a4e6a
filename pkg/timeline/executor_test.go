package timeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haivivi/chatmux/pkg/convo"
	"github.com/haivivi/chatmux/pkg/sidechan"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/image", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"base64":    "aW1n",
			"mediaType": "image/png",
			"alt":       req.Prompt,
		})
	})
	mux.HandleFunc("POST /api/task", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"tasks": []map[string]any{
				{"title": "Plan my week", "items": []map[string]any{
					{"type": "text", "text": "review calendar"},
				}},
			},
		})
	})
	mux.HandleFunc("POST /api/v0", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"url": "https://v0.dev/p/page"})
	})
	return httptest.NewServer(mux)
}

func newExecutor(t *testing.T, baseURL string) *Executor {
	t.Helper()
	return NewExecutor(sidechan.NewClient(sidechan.WithBaseURL(baseURL)))
}

func TestExecutor_ImageSuccess(t *testing.T) {
	srv := newBackend(t)
	defer srv.Close()
	e := newExecutor(t, srv.URL)

	e.Do(context.Background(), convo.IntentImage, "generate image of a sunset")

	msgs := e.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}

	user, assistant := msgs[0], msgs[1]
	if user.Role != convo.RoleUser || len(user.Parts) != 1 {
		t.Fatalf("user message = %+v", user)
	}
	if txt, ok := user.Parts[0].(convo.Text); !ok || txt != "generate image of a sunset" {
		t.Errorf("user part = %#v", user.Parts[0])
	}

	if assistant.Role != convo.RoleAssistant || len(assistant.Parts) != 2 {
		t.Fatalf("assistant message = %+v", assistant)
	}
	if txt, ok := assistant.Parts[0].(convo.Text); !ok || txt != "Here is the generated image:" {
		t.Errorf("lead-in = %#v", assistant.Parts[0])
	}
	img, ok := assistant.Parts[1].(*convo.Image)
	if !ok {
		t.Fatalf("data part = %T, want *convo.Image", assistant.Parts[1])
	}
	if img.Alt != "generate image of a sunset" {
		t.Errorf("alt = %q, want the prompt", img.Alt)
	}
}

func TestExecutor_TaskSuccess(t *testing.T) {
	srv := newBackend(t)
	defer srv.Close()
	e := newExecutor(t, srv.URL)

	e.Do(context.Background(), convo.IntentTask, "please /task plan my week")

	msgs := e.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	assistant := msgs[1]
	if txt, ok := assistant.Parts[0].(convo.Text); !ok || txt != "Here are the generated tasks:" {
		t.Errorf("lead-in = %#v", assistant.Parts[0])
	}
	tl, ok := assistant.Parts[1].(*convo.TaskList)
	if !ok {
		t.Fatalf("data part = %T, want *convo.TaskList", assistant.Parts[1])
	}
	if len(tl.Tasks) != 1 || tl.Tasks[0].Title != "Plan my week" {
		t.Errorf("tasks = %+v", tl.Tasks)
	}
}

func TestExecutor_PreviewSuccess(t *testing.T) {
	srv := newBackend(t)
	defer srv.Close()
	e := newExecutor(t, srv.URL)

	e.Do(context.Background(), convo.IntentUI, "build a landing page")

	msgs := e.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	assistant := msgs[1]
	if txt, ok := assistant.Parts[0].(convo.Text); !ok || txt != "Here is your generated UI:" {
		t.Errorf("lead-in = %#v", assistant.Parts[0])
	}
	p, ok := assistant.Parts[1].(*convo.Preview)
	if !ok {
		t.Fatalf("data part = %T, want *convo.Preview", assistant.Parts[1])
	}
	if p.URL == "" {
		t.Error("preview url is empty")
	}
}

func TestExecutor_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Image generation failed"})
	}))
	defer srv.Close()
	e := newExecutor(t, srv.URL)

	e.Do(context.Background(), convo.IntentImage, "/image cat")

	msgs := e.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2 (user + failure text)", len(msgs))
	}
	assistant := msgs[1]
	if assistant.Role != convo.RoleAssistant || len(assistant.Parts) != 1 {
		t.Fatalf("assistant message = %+v", assistant)
	}
	txt, ok := assistant.Parts[0].(convo.Text)
	if !ok {
		t.Fatalf("part = %T, want convo.Text (no data part on failure)", assistant.Parts[0])
	}
	if want := "Failed to generate image: Image generation failed"; string(txt) != want {
		t.Errorf("failure text = %q, want %q", txt, want)
	}
}

func TestExecutor_FailurePrefixes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "upstream down"})
	}))
	defer srv.Close()

	tests := []struct {
		intent convo.Intent
		want   string
	}{
		{convo.IntentImage, "Failed to generate image: upstream down"},
		{convo.IntentTask, "Failed to generate tasks: upstream down"},
		{convo.IntentUI, "Failed to generate UI: upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.intent.String(), func(t *testing.T) {
			e := newExecutor(t, srv.URL)
			e.Do(context.Background(), tt.intent, "x")
			assistant := e.Messages()[1]
			if txt := assistant.Parts[0].(convo.Text); string(txt) != tt.want {
				t.Errorf("text = %q, want %q", txt, tt.want)
			}
		})
	}
}

func TestExecutor_DefaultIntentNoEffect(t *testing.T) {
	e := newExecutor(t, "http://127.0.0.1:0")
	e.Do(context.Background(), convo.IntentDefault, "what's the weather")
	if n := len(e.Messages()); n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}
}

func TestExecutor_OutOfOrderSettlement(t *testing.T) {
	srv := newBackend(t)
	defer srv.Close()
	e := newExecutor(t, srv.URL)

	// Two commands accepted before either settles; results append in
	// settle order, not submission order.
	e.AppendUser("generate image of a sunset")
	e.AppendUser("build a landing page")
	uiResult := e.Resolve(context.Background(), convo.IntentUI, "build a landing page")
	imgResult := e.Resolve(context.Background(), convo.IntentImage, "generate image of a sunset")
	e.Append(uiResult)
	e.Append(imgResult)

	msgs := e.Messages()
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want 4", len(msgs))
	}
	if _, ok := msgs[2].Parts[1].(*convo.Preview); !ok {
		t.Errorf("msgs[2] data = %T, want *convo.Preview (settled first)", msgs[2].Parts[1])
	}
	if _, ok := msgs[3].Parts[1].(*convo.Image); !ok {
		t.Errorf("msgs[3] data = %T, want *convo.Image (settled second)", msgs[3].Parts[1])
	}
}

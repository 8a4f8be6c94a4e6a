package genapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haivivi/chatmux/pkg/convo"
)

func TestReplicateImages_Generate(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/models/openai/gpt-image-1.5/predictions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != "wait" {
			t.Errorf("Prefer = %q, want wait", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var body struct {
			Input replicateInput `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Input.Prompt != "a red fox" || body.Input.NumOutputs != 1 {
			t.Errorf("input = %+v", body.Input)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "succeeded",
			"output": []string{srv.URL + "/files/out.png"},
		})
	})
	mux.HandleFunc("GET /files/out.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	p := &ReplicateImages{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}
	img, err := p.GenerateImage(context.Background(), "a red fox", 1)
	if err != nil {
		t.Fatal(err)
	}
	if img.Base64 != base64.StdEncoding.EncodeToString(png) {
		t.Errorf("Base64 = %q", img.Base64)
	}
	if img.MediaType != "image/png" {
		t.Errorf("MediaType = %q", img.MediaType)
	}
	if len(img.Bytes) != len(png) || img.Bytes[0] != 0x89 {
		t.Errorf("Bytes = %v", img.Bytes)
	}
	if img.Alt != "a red fox" {
		t.Errorf("Alt = %q", img.Alt)
	}
}

func TestReplicateImages_PredictionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "failed",
			"error":  "NSFW content detected",
		})
	}))
	defer srv.Close()

	p := &ReplicateImages{BaseURL: srv.URL}
	_, err := p.GenerateImage(context.Background(), "x", 1)
	if err == nil || !strings.Contains(err.Error(), "NSFW content detected") {
		t.Errorf("err = %v", err)
	}
}

func TestFirstOutputURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"string", `"https://x/a.png"`, "https://x/a.png", false},
		{"list", `["https://x/a.png","https://x/b.png"]`, "https://x/a.png", false},
		{"empty list", `[]`, "", true},
		{"null", `null`, "", true},
		{"missing", ``, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := firstOutputURL(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestV0Client_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chats" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req v0ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Message != "build a dashboard" {
			t.Errorf("message = %q", req.Message)
		}
		if req.System != v0SystemPrompt {
			t.Errorf("system = %q", req.System)
		}
		cfg := req.ModelConfiguration
		if cfg.ModelID != v0Model || !cfg.ImageGenerations || !cfg.Thinking {
			t.Errorf("model config = %+v", cfg)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chat_1",
			"webUrl": "https://v0.dev/chat/1",
			"demo":   "https://demo.v0.dev/1",
		})
	}))
	defer srv.Close()

	c := &V0Client{APIKey: "k", BaseURL: srv.URL}
	preview, err := c.GenerateUI(context.Background(), "build a dashboard")
	if err != nil {
		t.Fatal(err)
	}
	if preview.URL != "https://demo.v0.dev/1" {
		t.Errorf("url = %q, want the demo url", preview.URL)
	}
}

func TestV0Client_WebURLFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"webUrl": "https://v0.dev/chat/2"})
	}))
	defer srv.Close()

	c := &V0Client{BaseURL: srv.URL}
	preview, err := c.GenerateUI(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if preview.URL != "https://v0.dev/chat/2" {
		t.Errorf("url = %q", preview.URL)
	}
}

func TestUnmarshalRepaired(t *testing.T) {
	var list convo.TaskList

	clean := `{"tasks":[{"title":"Ship","items":[]}]}`
	if err := unmarshalRepaired([]byte(clean), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Tasks) != 1 || list.Tasks[0].Title != "Ship" {
		t.Errorf("list = %+v", list)
	}

	// Trailing comma, the kind of almost-JSON models emit.
	broken := `{"tasks":[{"title":"Ship","items":[]},]}`
	list = convo.TaskList{}
	if err := unmarshalRepaired([]byte(broken), &list); err != nil {
		t.Fatalf("repair failed: %v", err)
	}
	if len(list.Tasks) != 1 || list.Tasks[0].Title != "Ship" {
		t.Errorf("list = %+v", list)
	}
}

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

type genRequest struct {
	Prompt     string `json:"prompt"`
	Provider   string `json:"provider,omitempty"`
	NumOutputs int    `json:"numOutputs,omitempty"`
}

func writeRequest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestLoadRequest(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    "req.yaml",
			content: "prompt: a lighthouse\nprovider: replicate\nnumOutputs: 2\n",
		},
		{
			name:    "json",
			file:    "req.json",
			content: `{"prompt":"a lighthouse","provider":"replicate","numOutputs":2}`,
		},
		{
			name:    "no extension sniffs yaml",
			file:    "req",
			content: "prompt: a lighthouse\nprovider: replicate\nnumOutputs: 2\n",
		},
		{
			name:    "no extension sniffs json",
			file:    "req",
			content: `{"prompt":"a lighthouse","provider":"replicate","numOutputs":2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRequest(t, tt.file, tt.content)

			var req genRequest
			if err := LoadRequest(path, &req); err != nil {
				t.Fatalf("LoadRequest error: %v", err)
			}
			if req.Prompt != "a lighthouse" || req.Provider != "replicate" || req.NumOutputs != 2 {
				t.Errorf("req = %+v", req)
			}
		})
	}
}

func TestLoadRequest_BadContent(t *testing.T) {
	path := writeRequest(t, "req.json", "{not json")

	var req genRequest
	if err := LoadRequest(path, &req); err == nil {
		t.Error("malformed request should fail")
	}
}

func TestLoadRequest_MissingFile(t *testing.T) {
	var req genRequest
	if err := LoadRequest(filepath.Join(t.TempDir(), "absent.yaml"), &req); err == nil {
		t.Error("missing file should fail")
	}
}

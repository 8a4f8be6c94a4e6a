package convo

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalPart(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Part
	}{
		{"text", `{"type":"text","text":"hello"}`, Text("hello")},
		{"reasoning", `{"type":"reasoning","text":"thinking"}`, Reasoning("thinking")},
		{"source-url", `{"type":"source-url","url":"https://example.com"}`, &SourceURL{URL: "https://example.com"}},
		{"shimmer", `{"type":"shimmer","text":"Loading"}`, Shimmer("Loading")},
		{"suggestion", `{"type":"suggestion","text":"try this"}`, Suggestion("try this")},
		{"checkpoint", `{"type":"checkpoint","label":"v1"}`, &Checkpoint{Label: "v1"}},
		{"tool", `{"type":"tool","name":"search","text":"ran"}`, &ToolUse{Name: "search", Text: "ran"}},
		{
			"preview",
			`{"type":"data-v0","data":{"url":"https://v0.dev/p/abc"}}`,
			&Preview{URL: "https://v0.dev/p/abc"},
		},
		{
			"context",
			`{"type":"context","data":{"usedTokens":10,"maxTokens":1000}}`,
			&ContextUsage{UsedTokens: 10, MaxTokens: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalPart([]byte(tt.data))
			if err != nil {
				t.Fatalf("UnmarshalPart() error = %v", err)
			}
			gb, _ := json.Marshal(got)
			wb, _ := json.Marshal(tt.want)
			if string(gb) != string(wb) {
				t.Errorf("UnmarshalPart() = %s, want %s", gb, wb)
			}
		})
	}
}

func TestUnmarshalPart_TaskPayload(t *testing.T) {
	data := `{"type":"data-task","data":{"tasks":[{"title":"Plan week","items":[
		{"type":"text","text":"book review"},
		{"type":"file","file":{"icon":"doc","name":"notes.md"}}
	]}]}}`

	p, err := UnmarshalPart([]byte(data))
	if err != nil {
		t.Fatalf("UnmarshalPart() error = %v", err)
	}
	tl, ok := p.(*TaskList)
	if !ok {
		t.Fatalf("part type = %T, want *TaskList", p)
	}
	if len(tl.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tl.Tasks))
	}
	task := tl.Tasks[0]
	if task.Title != "Plan week" {
		t.Errorf("title = %q", task.Title)
	}
	if len(task.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(task.Items))
	}
	if task.Items[0].Type != "text" || task.Items[0].Text != "book review" {
		t.Errorf("item[0] = %+v", task.Items[0])
	}
	if task.Items[1].Type != "file" || task.Items[1].File == nil || task.Items[1].File.Name != "notes.md" {
		t.Errorf("item[1] = %+v", task.Items[1])
	}
}

func TestUnmarshalPart_UnknownTag(t *testing.T) {
	data := `{"type":"hologram","text":"future","extra":42}`

	p, err := UnmarshalPart([]byte(data))
	if err != nil {
		t.Fatalf("UnmarshalPart() error = %v", err)
	}
	u, ok := p.(*Unknown)
	if !ok {
		t.Fatalf("part type = %T, want *Unknown", p)
	}
	if u.Tag != "hologram" {
		t.Errorf("tag = %q, want hologram", u.Tag)
	}

	// Unknown parts round-trip byte for byte.
	out, err := MarshalPart(u)
	if err != nil {
		t.Fatalf("MarshalPart() error = %v", err)
	}
	if string(out) != data {
		t.Errorf("round trip = %s, want %s", out, data)
	}
}

func TestMessage_RoundTrip(t *testing.T) {
	msg := NewMessage(RoleAssistant,
		Text("Here is the generated image:"),
		&Image{Base64: "aGk=", MediaType: "image/png", Alt: "a cat"},
		&SourceURL{URL: "https://example.com/a"},
		&Queue{Items: []QueueItem{{Title: "one", Status: "completed"}, {Title: "two"}}},
	)

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.ID != msg.ID || got.Role != RoleAssistant {
		t.Errorf("got id=%q role=%q", got.ID, got.Role)
	}
	if len(got.Parts) != 4 {
		t.Fatalf("parts = %d, want 4", len(got.Parts))
	}
	if PartType(got.Parts[0]) != PartTypeText {
		t.Errorf("parts[0] tag = %q", PartType(got.Parts[0]))
	}
	img, ok := got.Parts[1].(*Image)
	if !ok || img.MediaType != "image/png" || img.Alt != "a cat" {
		t.Errorf("parts[1] = %#v", got.Parts[1])
	}
	q, ok := got.Parts[3].(*Queue)
	if !ok || len(q.Items) != 2 {
		t.Fatalf("parts[3] = %#v", got.Parts[3])
	}
	if !q.Items[0].Completed() || q.Items[1].Completed() {
		t.Errorf("completion flags = %v, %v", q.Items[0].Completed(), q.Items[1].Completed())
	}
}

func TestPartType(t *testing.T) {
	tests := []struct {
		part Part
		want string
	}{
		{Text("x"), "text"},
		{Reasoning("x"), "reasoning"},
		{&SourceURL{}, "source-url"},
		{&Image{}, "data-image"},
		{&TaskList{}, "data-task"},
		{&Preview{}, "data-v0"},
		{&ChainOfThought{}, "chain-of-thought"},
		{&Checkpoint{}, "checkpoint"},
		{&Confirmation{}, "confirmation"},
		{&ContextUsage{}, "context"},
		{&InlineCitation{}, "inline-citation"},
		{&Plan{}, "plan"},
		{&Queue{}, "queue"},
		{Shimmer("x"), "shimmer"},
		{Suggestion("x"), "suggestion"},
		{&ToolUse{}, "tool"},
		{&Unknown{Tag: "mystery"}, "mystery"},
	}
	for _, tt := range tests {
		if got := PartType(tt.part); got != tt.want {
			t.Errorf("PartType(%T) = %q, want %q", tt.part, got, tt.want)
		}
	}
}

func TestNewMessage(t *testing.T) {
	a := NewMessage(RoleUser, Text("hi"))
	b := NewMessage(RoleUser, Text("hi"))
	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty ids")
	}
	if a.ID == b.ID {
		t.Errorf("ids must be unique, both %q", a.ID)
	}
}

package timeline

import (
	"strings"
	"testing"

	"github.com/haivivi/chatmux/pkg/convo"
	"github.com/haivivi/chatmux/pkg/session"
)

func testRenderer() *Renderer {
	return NewRenderer(DefaultTheme)
}

func TestRender_Idempotent(t *testing.T) {
	r := testRenderer()
	streamed := []*convo.Message{
		convo.NewMessage(convo.RoleUser, convo.Text("hello")),
		convo.NewMessage(convo.RoleAssistant, convo.Reasoning("hmm"), convo.Text("hi")),
	}
	synthetic := []*convo.Message{
		convo.NewMessage(convo.RoleAssistant, convo.Text("Here is your generated UI:"), &convo.Preview{URL: "https://v0.dev/p/x"}),
	}

	first := r.Render(streamed, synthetic, session.StatusStreaming)
	second := r.Render(streamed, synthetic, session.StatusStreaming)
	if first != second {
		t.Error("render is not idempotent for identical inputs")
	}
}

func TestRender_UnknownPartIsSilent(t *testing.T) {
	r := testRenderer()
	known := []*convo.Message{
		convo.NewMessage(convo.RoleAssistant, convo.Text("before"), convo.Text("after")),
	}
	withUnknown := []*convo.Message{
		{
			ID:   known[0].ID,
			Role: convo.RoleAssistant,
			Parts: []convo.Part{
				convo.Text("before"),
				&convo.Unknown{Tag: "hologram", Raw: []byte(`{"type":"hologram"}`)},
				convo.Text("after"),
			},
		},
	}

	a := r.Render(known, nil, session.StatusReady)
	b := r.Render(withUnknown, nil, session.StatusReady)
	if a != b {
		t.Errorf("unknown part altered output:\n%q\nvs\n%q", a, b)
	}
}

func TestRender_Citations(t *testing.T) {
	r := testRenderer()
	msg := convo.NewMessage(convo.RoleAssistant,
		convo.Text("answer"),
		&convo.SourceURL{URL: "https://a.example.com"},
		&convo.SourceURL{URL: "https://b.example.com"},
	)

	out := r.Render([]*convo.Message{msg}, nil, session.StatusReady)
	if !strings.Contains(out, "Used 2 sources") {
		t.Errorf("missing citation count in:\n%s", out)
	}
	if !strings.Contains(out, "https://a.example.com") || !strings.Contains(out, "https://b.example.com") {
		t.Errorf("missing source urls in:\n%s", out)
	}

	// User messages never get the affordance.
	userMsg := convo.NewMessage(convo.RoleUser, convo.Text("q"), &convo.SourceURL{URL: "https://c.example.com"})
	out = r.Render([]*convo.Message{userMsg}, nil, session.StatusReady)
	if strings.Contains(out, "sources") {
		t.Errorf("user message got citation affordance:\n%s", out)
	}
}

func TestRender_SubmittedIndicator(t *testing.T) {
	r := testRenderer()
	msgs := []*convo.Message{convo.NewMessage(convo.RoleUser, convo.Text("hi"))}

	submitted := r.Render(msgs, nil, session.StatusSubmitted)
	streaming := r.Render(msgs, nil, session.StatusStreaming)
	if submitted == streaming {
		t.Error("submitted indicator did not change the output")
	}
	if !strings.Contains(submitted, "…") {
		t.Errorf("missing indicator in:\n%q", submitted)
	}
}

func TestRender_ActionsOnlyOnLastStreamedAssistant(t *testing.T) {
	r := testRenderer()
	streamed := []*convo.Message{
		convo.NewMessage(convo.RoleAssistant, convo.Text("old answer")),
		convo.NewMessage(convo.RoleAssistant, convo.Text("new answer")),
	}
	synthetic := []*convo.Message{
		convo.NewMessage(convo.RoleAssistant, convo.Text("synthetic answer")),
	}

	out := r.Render(streamed, synthetic, session.StatusReady)
	if got := strings.Count(out, "retry"); got != 1 {
		t.Errorf("retry affordance count = %d, want 1\n%s", got, out)
	}
	idx := strings.Index(out, "retry")
	if before := out[:idx]; !strings.Contains(before, "new answer") {
		t.Errorf("affordance not attached to last streamed message:\n%s", out)
	}
	if after := out[idx:]; strings.Contains(after, "old answer") {
		t.Errorf("affordance attached before earlier message:\n%s", out)
	}

	// Last streamed message is a user turn: no affordance anywhere.
	streamed = append(streamed, convo.NewMessage(convo.RoleUser, convo.Text("follow-up")))
	out = r.Render(streamed, synthetic, session.StatusReady)
	if strings.Contains(out, "retry") {
		t.Errorf("affordance on non-assistant tail:\n%s", out)
	}
}

func TestRender_ReasoningStreamingFlag(t *testing.T) {
	r := testRenderer()
	msgs := []*convo.Message{
		convo.NewMessage(convo.RoleAssistant, convo.Reasoning("working it out")),
	}

	streaming := r.Render(msgs, nil, session.StatusStreaming)
	if !strings.Contains(streaming, "thinking") {
		t.Errorf("missing thinking affordance while streaming:\n%s", streaming)
	}

	ready := r.Render(msgs, nil, session.StatusReady)
	if strings.Contains(ready, "thinking") {
		t.Errorf("thinking affordance after settle:\n%s", ready)
	}

	// Reasoning that is not the last part never shows the flag.
	msgs = []*convo.Message{
		convo.NewMessage(convo.RoleAssistant, convo.Reasoning("working"), convo.Text("done")),
	}
	streaming = r.Render(msgs, nil, session.StatusStreaming)
	if strings.Contains(streaming, "thinking") {
		t.Errorf("thinking affordance on non-final part:\n%s", streaming)
	}
}

func TestRender_DataBlocks(t *testing.T) {
	r := testRenderer()
	msgs := []*convo.Message{
		convo.NewMessage(convo.RoleAssistant,
			convo.Text("Here are the generated tasks:"),
			&convo.TaskList{Tasks: []convo.Task{
				{Title: "Ship it", Items: []convo.TaskItem{
					{Type: "text", Text: "write changelog"},
					{Type: "file", File: &convo.TaskFile{Icon: "📄", Name: "notes.md"}},
				}},
			}},
			&convo.Queue{Items: []convo.QueueItem{
				{Title: "deploy", Status: "completed"},
				{Title: "announce"},
			}},
		),
	}

	out := r.Render(msgs, nil, session.StatusReady)
	for _, want := range []string{"Ship it", "write changelog", "notes.md", "Queue (2)", "deploy", "announce"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "✓") || !strings.Contains(out, "○") {
		t.Errorf("queue completion indicators missing:\n%s", out)
	}
}

package convo

import (
	"github.com/google/uuid"
)

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	_ Part = Text("")
	_ Part = Reasoning("")
	_ Part = (*SourceURL)(nil)
	_ Part = (*Image)(nil)
	_ Part = (*TaskList)(nil)
	_ Part = (*Preview)(nil)
	_ Part = (*ChainOfThought)(nil)
	_ Part = (*Checkpoint)(nil)
	_ Part = (*Confirmation)(nil)
	_ Part = (*ContextUsage)(nil)
	_ Part = (*InlineCitation)(nil)
	_ Part = (*Plan)(nil)
	_ Part = (*Queue)(nil)
	_ Part = Shimmer("")
	_ Part = Suggestion("")
	_ Part = (*ToolUse)(nil)
	_ Part = (*Unknown)(nil)
)

// Message is one turn in a conversation. A message is created on submission
// (user) or on the first token or side-channel result (assistant). Streaming
// messages grow in place until the stream settles; after that they are never
// mutated again.
type Message struct {
	ID    string
	Role  Role
	Parts []Part
}

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, parts ...Part) *Message {
	return &Message{
		ID:    uuid.NewString(),
		Role:  role,
		Parts: parts,
	}
}

type Role string

func (r Role) String() string {
	return string(r)
}

// Part is a single tagged content unit inside a message. The set of
// implementations is closed within this package; payloads received with a
// tag this package does not know decode into *Unknown.
type Part interface {
	isPart()
}

// Text is plain response or user text.
type Text string

func (Text) isPart() {}

// Reasoning is model thinking text surfaced alongside the answer.
type Reasoning string

func (Reasoning) isPart() {}

// SourceURL is a web source the assistant grounded its answer on.
type SourceURL struct {
	URL string `json:"url"`
}

func (*SourceURL) isPart() {}

// Image is a generated image payload, as returned by the image side channel.
type Image struct {
	Base64    string `json:"base64,omitempty"`
	Bytes     []int  `json:"uint8Array,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Alt       string `json:"alt,omitempty"`
}

func (*Image) isPart() {}

// TaskList is the structured-task side channel payload.
type TaskList struct {
	Tasks []Task `json:"tasks"`
}

func (*TaskList) isPart() {}

// Task is a titled group of task items.
type Task struct {
	Title string     `json:"title"`
	Items []TaskItem `json:"items"`
}

// TaskItem is one entry in a task: either a file reference or free text.
type TaskItem struct {
	Type string    `json:"type"` // "file" or "text"
	File *TaskFile `json:"file,omitempty"`
	Text string    `json:"text,omitempty"`
}

type TaskFile struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
}

// Preview is an embedded preview of an externally generated UI.
type Preview struct {
	URL string `json:"url"`
}

func (*Preview) isPart() {}

type ChainOfThought struct {
	Text string `json:"text,omitempty"`
}

func (*ChainOfThought) isPart() {}

type Checkpoint struct {
	Label string `json:"label,omitempty"`
}

func (*Checkpoint) isPart() {}

type Confirmation struct {
	Approval string `json:"approval,omitempty"`
	State    string `json:"state,omitempty"`
}

func (*Confirmation) isPart() {}

type ContextUsage struct {
	UsedTokens int `json:"usedTokens"`
	MaxTokens  int `json:"maxTokens"`
}

func (*ContextUsage) isPart() {}

type InlineCitation struct {
	Text    string   `json:"text,omitempty"`
	URL     string   `json:"url,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

func (*InlineCitation) isPart() {}

type Plan struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text,omitempty"`
}

func (*Plan) isPart() {}

// Queue is a list of queued work items with a binary completion indicator.
type Queue struct {
	Items []QueueItem `json:"items"`
}

func (*Queue) isPart() {}

// QueueItem reports completion through Status: the value "completed" renders
// as done, anything else as pending.
type QueueItem struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// Completed reports whether the item is in the completed state.
func (q QueueItem) Completed() bool {
	return q.Status == "completed"
}

type Shimmer string

func (Shimmer) isPart() {}

type Suggestion string

func (Suggestion) isPart() {}

type ToolUse struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

func (*ToolUse) isPart() {}

// Unknown holds a part whose tag this package does not recognize. It keeps
// the raw payload so the part round-trips unchanged, and renders as nothing.
type Unknown struct {
	Tag string
	Raw []byte
}

func (*Unknown) isPart() {}

package timeline

import (
	"context"

	"github.com/haivivi/chatmux/pkg/convo"
	"github.com/haivivi/chatmux/pkg/sidechan"
)

// PlaceholderAttachments is the text used for a submission that carried
// attachments and no text.
const PlaceholderAttachments = "Sent with attachments"

// Lead-in texts for successful side-channel results.
const (
	leadInImage   = "Here is the generated image:"
	leadInTask    = "Here are the generated tasks:"
	leadInPreview = "Here is your generated UI:"
)

// Failure prefixes for settled side-channel errors.
const (
	failImage   = "Failed to generate image: "
	failTask    = "Failed to generate tasks: "
	failPreview = "Failed to generate UI: "
)

// Executor runs side-channel commands and owns the synthetic message list.
// The list is append-only: a user message is appended as soon as the
// command is accepted, and an assistant message is appended when the call
// settles, in settle order. AppendUser and Append must be called from the
// event loop; Resolve performs the network round trip and may run in a
// background goroutine.
type Executor struct {
	client   *sidechan.Client
	messages []*convo.Message
}

func NewExecutor(client *sidechan.Client) *Executor {
	return &Executor{client: client}
}

// Messages returns the synthetic message list. The slice is owned by the
// executor; callers must not mutate it.
func (e *Executor) Messages() []*convo.Message {
	return e.messages
}

// AppendUser immediately appends the user's own message so the timeline
// shows it before the side-channel call resolves.
func (e *Executor) AppendUser(text string) *convo.Message {
	msg := convo.NewMessage(convo.RoleUser, convo.Text(text))
	e.messages = append(e.messages, msg)
	return msg
}

// Append appends a settled assistant message.
func (e *Executor) Append(msg *convo.Message) {
	if msg == nil {
		return
	}
	e.messages = append(e.messages, msg)
}

// Resolve invokes the side channel for a non-default intent and returns
// the assistant message describing the outcome. A transport or provider
// failure is converted into a plain text message; Resolve never returns
// an error. The submitted text is forwarded verbatim as the prompt.
func (e *Executor) Resolve(ctx context.Context, intent convo.Intent, text string) *convo.Message {
	switch intent {
	case convo.IntentImage:
		img, err := e.client.Image.Generate(ctx, &sidechan.ImageRequest{Prompt: text})
		if err != nil {
			return failureMessage(failImage, err)
		}
		return convo.NewMessage(convo.RoleAssistant, convo.Text(leadInImage), img)
	case convo.IntentTask:
		tasks, err := e.client.Task.Generate(ctx, &sidechan.TaskRequest{Prompt: text})
		if err != nil {
			return failureMessage(failTask, err)
		}
		return convo.NewMessage(convo.RoleAssistant, convo.Text(leadInTask), tasks)
	case convo.IntentUI:
		preview, err := e.client.Preview.Generate(ctx, &sidechan.PreviewRequest{Prompt: text})
		if err != nil {
			return failureMessage(failPreview, err)
		}
		return convo.NewMessage(convo.RoleAssistant, convo.Text(leadInPreview), preview)
	default:
		return nil
	}
}

// Do runs a side-channel command synchronously: the user message first,
// then the settled assistant message. Default intents are not executor
// business and leave the list untouched.
func (e *Executor) Do(ctx context.Context, intent convo.Intent, text string) {
	if intent == convo.IntentDefault {
		return
	}
	e.AppendUser(text)
	e.Append(e.Resolve(ctx, intent, text))
}

func failureMessage(prefix string, err error) *convo.Message {
	return convo.NewMessage(convo.RoleAssistant, convo.Text(prefix+err.Error()))
}

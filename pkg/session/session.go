package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/haivivi/chatmux/pkg/convo"
)

// ErrDone is returned by Stream.Next when the stream has settled cleanly.
var ErrDone = errors.New("session: done")

// Status is the lifecycle state of the streaming session.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitted
	StatusStreaming
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitted:
		return "submitted"
	case StatusStreaming:
		return "streaming"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Options are the request-scoped parameters forwarded on every submission.
type Options struct {
	Model     string
	WebSearch bool
}

// ChunkKind tags the payload of a streamed delta.
type ChunkKind int

const (
	ChunkText ChunkKind = iota
	ChunkReasoning
	ChunkSource
)

// Chunk is one incremental delta from the model stream.
type Chunk struct {
	Kind ChunkKind
	Text string
	URL  string
}

// Stream is a pull-based token stream. Next returns ErrDone after the final
// chunk; any other error means the stream failed.
type Stream interface {
	Next() (*Chunk, error)
	Close() error
}

// Streamer starts a model stream over the full prior message list.
type Streamer interface {
	Stream(ctx context.Context, messages []*convo.Message, opts Options) (Stream, error)
}

// Session owns the streamed message list. All mutation happens through
// Send, Apply, Finish and Regenerate; the caller is expected to invoke
// these from a single event loop, which is the only synchronization this
// type relies on.
type Session struct {
	streamer Streamer

	messages []*convo.Message
	status   Status
	err      error

	lastOpts Options
	lastSent string
}

func New(streamer Streamer) *Session {
	return &Session{streamer: streamer}
}

// Messages returns the streamed message list. The slice is owned by the
// session; callers must not mutate it.
func (s *Session) Messages() []*convo.Message {
	return s.messages
}

func (s *Session) Status() Status {
	return s.status
}

// Err returns the failure that put the session into StatusError, if any.
func (s *Session) Err() error {
	return s.err
}

// Send appends the user message and starts a model stream over the whole
// history. The session moves to StatusSubmitted; the first applied chunk
// moves it to StatusStreaming. The returned Stream must be pumped via
// Apply/Finish by the caller's event loop. An in-flight stream is never
// cancelled by a new Send.
func (s *Session) Send(ctx context.Context, text string, opts Options) (Stream, error) {
	s.messages = append(s.messages, convo.NewMessage(convo.RoleUser, convo.Text(text)))
	s.lastOpts = opts
	s.lastSent = text
	return s.start(ctx)
}

// Regenerate drops the trailing assistant message and re-issues the last
// user turn with the options it was originally sent with.
func (s *Session) Regenerate(ctx context.Context) (Stream, error) {
	if s.lastSent == "" {
		return nil, errors.New("session: nothing to regenerate")
	}
	if n := len(s.messages); n > 0 && s.messages[n-1].Role == convo.RoleAssistant {
		s.messages = s.messages[:n-1]
	}
	return s.start(ctx)
}

func (s *Session) start(ctx context.Context) (Stream, error) {
	stream, err := s.streamer.Stream(ctx, s.messages, s.lastOpts)
	if err != nil {
		s.status = StatusError
		s.err = err
		return nil, err
	}
	s.status = StatusSubmitted
	s.err = nil
	return stream, nil
}

// Apply folds one chunk into the trailing assistant message, creating it on
// the first chunk. Text and reasoning deltas join the trailing part of the
// same kind; source chunks always append a new part.
func (s *Session) Apply(c *Chunk) {
	if c == nil {
		return
	}
	s.status = StatusStreaming

	msg := s.tail()
	switch c.Kind {
	case ChunkText:
		if n := len(msg.Parts); n > 0 {
			if t, ok := msg.Parts[n-1].(convo.Text); ok {
				msg.Parts[n-1] = t + convo.Text(c.Text)
				return
			}
		}
		msg.Parts = append(msg.Parts, convo.Text(c.Text))
	case ChunkReasoning:
		if n := len(msg.Parts); n > 0 {
			if r, ok := msg.Parts[n-1].(convo.Reasoning); ok {
				msg.Parts[n-1] = r + convo.Reasoning(c.Text)
				return
			}
		}
		msg.Parts = append(msg.Parts, convo.Reasoning(c.Text))
	case ChunkSource:
		msg.Parts = append(msg.Parts, &convo.SourceURL{URL: c.URL})
	}
}

// Finish settles the current turn. A nil error freezes the assistant
// message and moves the session to StatusReady; anything else moves it to
// StatusError. ErrDone counts as clean.
func (s *Session) Finish(err error) {
	if err == nil || errors.Is(err, ErrDone) {
		s.status = StatusReady
		return
	}
	s.status = StatusError
	s.err = err
}

// tail returns the assistant message under construction, creating it if the
// last message is not an assistant turn.
func (s *Session) tail() *convo.Message {
	if n := len(s.messages); n > 0 && s.messages[n-1].Role == convo.RoleAssistant {
		return s.messages[n-1]
	}
	msg := convo.NewMessage(convo.RoleAssistant)
	s.messages = append(s.messages, msg)
	return msg
}

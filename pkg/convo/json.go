package convo

import (
	"encoding/json"
	"fmt"
)

// Part type tags as they appear on the wire.
const (
	PartTypeText           = "text"
	PartTypeReasoning      = "reasoning"
	PartTypeSourceURL      = "source-url"
	PartTypeImage          = "data-image"
	PartTypeTask           = "data-task"
	PartTypePreview        = "data-v0"
	PartTypeChainOfThought = "chain-of-thought"
	PartTypeCheckpoint     = "checkpoint"
	PartTypeConfirmation   = "confirmation"
	PartTypeContext        = "context"
	PartTypeInlineCitation = "inline-citation"
	PartTypePlan           = "plan"
	PartTypeQueue          = "queue"
	PartTypeShimmer        = "shimmer"
	PartTypeSuggestion     = "suggestion"
	PartTypeTool           = "tool"
)

// PartType returns the wire tag for a part.
func PartType(p Part) string {
	switch t := p.(type) {
	case Text:
		return PartTypeText
	case Reasoning:
		return PartTypeReasoning
	case *SourceURL:
		return PartTypeSourceURL
	case *Image:
		return PartTypeImage
	case *TaskList:
		return PartTypeTask
	case *Preview:
		return PartTypePreview
	case *ChainOfThought:
		return PartTypeChainOfThought
	case *Checkpoint:
		return PartTypeCheckpoint
	case *Confirmation:
		return PartTypeConfirmation
	case *ContextUsage:
		return PartTypeContext
	case *InlineCitation:
		return PartTypeInlineCitation
	case *Plan:
		return PartTypePlan
	case *Queue:
		return PartTypeQueue
	case Shimmer:
		return PartTypeShimmer
	case Suggestion:
		return PartTypeSuggestion
	case *ToolUse:
		return PartTypeTool
	case *Unknown:
		return t.Tag
	}
	return ""
}

// partRaw is the wire structure shared by all part tags. Scalar-ish parts
// carry text/url/label at the top level; data-* and the richer interactive
// parts nest their payload under "data".
type partRaw struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	URL   string          `json:"url,omitempty"`
	Label string          `json:"label,omitempty"`
	Name  string          `json:"name,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UnmarshalPart decodes one wire part. An unrecognized tag is not an error:
// it decodes into *Unknown carrying the raw bytes.
func UnmarshalPart(data []byte) (Part, error) {
	var raw partRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse part: %w", err)
	}

	decodeData := func(v any) error {
		if len(raw.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw.Data, v); err != nil {
			return fmt.Errorf("parse %s payload: %w", raw.Type, err)
		}
		return nil
	}

	switch raw.Type {
	case PartTypeText:
		return Text(raw.Text), nil
	case PartTypeReasoning:
		return Reasoning(raw.Text), nil
	case PartTypeSourceURL:
		return &SourceURL{URL: raw.URL}, nil
	case PartTypeImage:
		p := &Image{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeTask:
		p := &TaskList{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypePreview:
		p := &Preview{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeChainOfThought:
		return &ChainOfThought{Text: raw.Text}, nil
	case PartTypeCheckpoint:
		return &Checkpoint{Label: raw.Label}, nil
	case PartTypeConfirmation:
		p := &Confirmation{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeContext:
		p := &ContextUsage{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeInlineCitation:
		p := &InlineCitation{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		p.Text = raw.Text
		return p, nil
	case PartTypePlan:
		p := &Plan{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		p.Text = raw.Text
		return p, nil
	case PartTypeQueue:
		p := &Queue{}
		if err := decodeData(p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeShimmer:
		return Shimmer(raw.Text), nil
	case PartTypeSuggestion:
		return Suggestion(raw.Text), nil
	case PartTypeTool:
		return &ToolUse{Name: raw.Name, Text: raw.Text}, nil
	default:
		return &Unknown{Tag: raw.Type, Raw: append([]byte(nil), data...)}, nil
	}
}

// MarshalPart encodes one part into its wire form.
func MarshalPart(p Part) ([]byte, error) {
	marshalData := func(typ string, v any) ([]byte, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return json.Marshal(partRaw{Type: typ, Data: data})
	}

	switch t := p.(type) {
	case Text:
		return json.Marshal(partRaw{Type: PartTypeText, Text: string(t)})
	case Reasoning:
		return json.Marshal(partRaw{Type: PartTypeReasoning, Text: string(t)})
	case *SourceURL:
		return json.Marshal(partRaw{Type: PartTypeSourceURL, URL: t.URL})
	case *Image:
		return marshalData(PartTypeImage, t)
	case *TaskList:
		return marshalData(PartTypeTask, t)
	case *Preview:
		return marshalData(PartTypePreview, t)
	case *ChainOfThought:
		return json.Marshal(partRaw{Type: PartTypeChainOfThought, Text: t.Text})
	case *Checkpoint:
		return json.Marshal(partRaw{Type: PartTypeCheckpoint, Label: t.Label})
	case *Confirmation:
		return marshalData(PartTypeConfirmation, t)
	case *ContextUsage:
		return marshalData(PartTypeContext, t)
	case *InlineCitation:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return json.Marshal(partRaw{Type: PartTypeInlineCitation, Text: t.Text, Data: data})
	case *Plan:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return json.Marshal(partRaw{Type: PartTypePlan, Text: t.Text, Data: data})
	case *Queue:
		return marshalData(PartTypeQueue, t)
	case Shimmer:
		return json.Marshal(partRaw{Type: PartTypeShimmer, Text: string(t)})
	case Suggestion:
		return json.Marshal(partRaw{Type: PartTypeSuggestion, Text: string(t)})
	case *ToolUse:
		return json.Marshal(partRaw{Type: PartTypeTool, Name: t.Name, Text: t.Text})
	case *Unknown:
		if len(t.Raw) > 0 {
			return append([]byte(nil), t.Raw...), nil
		}
		return json.Marshal(partRaw{Type: t.Tag})
	default:
		return nil, fmt.Errorf("unexpected part type: %T", p)
	}
}

type messageRaw struct {
	ID    string            `json:"id"`
	Role  Role              `json:"role"`
	Parts []json.RawMessage `json:"parts"`
}

// MarshalJSON implements json.Marshaler.
func (m *Message) MarshalJSON() ([]byte, error) {
	raw := messageRaw{
		ID:    m.ID,
		Role:  m.Role,
		Parts: make([]json.RawMessage, 0, len(m.Parts)),
	}
	for _, p := range m.Parts {
		b, err := MarshalPart(p)
		if err != nil {
			return nil, err
		}
		raw.Parts = append(raw.Parts, b)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw messageRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse message: %w", err)
	}
	msg := Message{ID: raw.ID, Role: raw.Role}
	for _, b := range raw.Parts {
		p, err := UnmarshalPart(b)
		if err != nil {
			return err
		}
		msg.Parts = append(msg.Parts, p)
	}
	*m = msg
	return nil
}

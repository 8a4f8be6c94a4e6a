package genapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"

	"github.com/haivivi/chatmux/pkg/convo"
)

const defaultTaskModel = openai.ChatModelGPT4o

const taskSystemPrompt = "You are a project planner. Break the user's request " +
	"into concrete task groups. Each group has a short title and a list of " +
	"items; use a file item (with an icon and a file name) when a step " +
	"produces or edits a file, and a text item otherwise."

var _ TaskGenerator = (*OpenAITasks)(nil)

// OpenAITasks turns a free-form prompt into a structured task list using
// OpenAI structured outputs with a strict JSON schema.
type OpenAITasks struct {
	Client *openai.Client
	Model  string
}

func (g *OpenAITasks) GenerateTasks(ctx context.Context, prompt string) (*convo.TaskList, error) {
	model := g.Model
	if model == "" {
		model = defaultTaskModel
	}

	schema, err := jsonschema.For[convo.TaskList](nil)
	if err != nil {
		return nil, fmt.Errorf("build task schema: %w", err)
	}

	resp, err := g.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(taskSystemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "task_list",
					Description: param.NewOpt("A grouped list of tasks"),
					Schema:      strictSchema(schema.CloneSchemas()),
					Strict:      param.NewOpt(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate tasks: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("blocked: %s", choice.Message.Refusal)
	}
	if choice.Message.Content == "" {
		return nil, errors.New("no content")
	}

	var list convo.TaskList
	if err := unmarshalRepaired([]byte(choice.Message.Content), &list); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}
	return &list, nil
}

// strictSchema rewrites a schema for OpenAI strict mode: every object gets
// additionalProperties: false and all of its properties become required,
// with optional ones made nullable instead.
func strictSchema(m *jsonschema.Schema) *jsonschema.Schema {
	if m == nil {
		return nil
	}
	switch m.Type {
	case "array":
		m.Items = strictSchema(m.Items)
	case "object":
		m.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}

		required := make(map[string]struct{}, len(m.Properties))
		for _, k := range m.Required {
			required[k] = struct{}{}
		}
		for k, v := range m.Properties {
			if _, ok := required[k]; !ok {
				required[k] = struct{}{}
				if !slices.Contains(v.Types, "null") {
					v.Types = append(v.Types, "null")
				}
			}
			m.Properties[k] = strictSchema(v)
		}
		m.Required = slices.Collect(maps.Keys(required))
	}
	return m
}

// unmarshalRepaired unmarshals JSON, attempting a jsonrepair pass when the
// model hands back almost-JSON with a syntax error in it.
func unmarshalRepaired(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return rerr
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

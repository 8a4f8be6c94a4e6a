package genapi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"

	"github.com/haivivi/chatmux/pkg/convo"
)

const openaiImageModel = "gpt-image-1.5-2025-12-16"

var _ ImageProvider = (*OpenAIImages)(nil)

// OpenAIImages generates images through the OpenAI Images API. The API
// answers with base64 payloads directly, no follow-up fetch is needed.
type OpenAIImages struct {
	Client *openai.Client
	Model  string
}

func (p *OpenAIImages) GenerateImage(ctx context.Context, prompt string, numOutputs int) (*convo.Image, error) {
	model := p.Model
	if model == "" {
		model = openaiImageModel
	}

	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(model),
	}
	if numOutputs > 1 {
		params.N = param.NewOpt(int64(numOutputs))
	}

	resp, err := p.Client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("openai: image response has no data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	ints := make([]int, len(raw))
	for i, b := range raw {
		ints[i] = int(b)
	}
	return &convo.Image{
		Base64:    resp.Data[0].B64JSON,
		Bytes:     ints,
		MediaType: "image/png",
		Alt:       prompt,
	}, nil
}

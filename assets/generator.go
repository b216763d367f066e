package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // provider payloads are not guaranteed to be PNG
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// ErrNoImageData reports a provider response that carried no decodable
// image payload.
var ErrNoImageData = errors.New("provider returned no image data")

// Generator produces one image for one prompt. Implementations talk to
// an external model; the provisioner is responsible for never calling
// Generate more often than the budget allows.
type Generator interface {
	Generate(ctx context.Context, prompt string) (image.Image, error)
}

// OpenAIGenerator renders prompts through an OpenAI-compatible image
// endpoint.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewOpenAIGenerator builds a generator for the given credentials. An
// empty baseURL keeps the provider default, an empty model falls back
// to DALL-E 3, a non-positive timeout falls back to 60s.
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration, log zerolog.Logger) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		log:     log,
	}
}

// Generate requests a single 1024x1024 render and decodes it. The
// caller resizes to the category's stored size.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.log.Info().Str("model", g.model).Msg("requesting image generation")

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("image request: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrNoImageData
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

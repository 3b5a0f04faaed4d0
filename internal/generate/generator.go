// Package generate drafts blog content with Gemini. The feature is a
// placeholder on the dashboard: without an API key the endpoint reports
// that generation is disabled instead of failing requests.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("generate: content generation is not configured")

const defaultModelID = "gemini-2.5-flash"

const systemPrompt = `You are a content writer for a digital consultancy.
Write a blog post draft in plain markdown (headings, bold, paragraphs only)
for the requested topic. Keep it practical and free of marketing fluff.`

// Generator produces blog post drafts.
type Generator struct {
	client  *genai.Client
	modelID string
}

// NewGenerator creates a Gemini-backed generator. An empty API key
// yields a disabled generator rather than an error, so the caller can
// wire it unconditionally.
func NewGenerator(ctx context.Context, apiKey, modelID string) (*Generator, error) {
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultModelID
	}
	if strings.TrimSpace(apiKey) == "" {
		return &Generator{modelID: modelID}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("generate: create gemini client: %w", err)
	}
	return &Generator{client: client, modelID: modelID}, nil
}

// Enabled reports whether drafts can actually be produced.
func (g *Generator) Enabled() bool {
	return g != nil && g.client != nil
}

// Draft is a generated blog post draft.
type Draft struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
	ModelID string `json:"model_id"`
}

// GenerateDraft asks the model for a post draft on the given topic.
func (g *Generator) GenerateDraft(ctx context.Context, topic string) (*Draft, error) {
	if !g.Enabled() {
		return nil, ErrDisabled
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("generate: topic is required")
	}

	model := g.client.GenerativeModel(g.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	resp, err := model.GenerateContent(ctx, genai.Text("Write a blog post draft about: "+topic))
	if err != nil {
		return nil, fmt.Errorf("generate: gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("generate: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, errors.New("generate: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return &Draft{
		Topic:   topic,
		Content: strings.TrimSpace(text.String()),
		ModelID: g.modelID,
	}, nil
}

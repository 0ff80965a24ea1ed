package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator produces structured JSON from a prompt. Implementations make a
// single attempt; there is no retry. Whether the raw bytes actually match
// the requested schema is re-checked by the caller when parsing.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *genai.Schema) ([]byte, error)
}

// GeminiClient calls the Gemini API in JSON response mode.
type GeminiClient struct {
	apiKey string
	model  string
}

// NewGeminiClient returns a client for the given API key and model name.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, model: model}
}

// Generate sends the prompt with the target response schema and returns the
// raw JSON text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, schema *genai.Schema) ([]byte, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty response from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, errors.New("unexpected response part type")
	}
	return []byte(text), nil
}

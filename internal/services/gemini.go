package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is the configuration failure: it aborts the analysis
// operation before any network attempt, without being fatal to the process.
var ErrMissingAPIKey = errors.New("gemini api key is missing")

type GeminiService interface {
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiService builds the client when a key is configured. With an empty
// key the service still constructs and every call fails with
// ErrMissingAPIKey, so the rest of the application keeps working.
func NewGeminiService(apiKey string) (GeminiService, error) {
	svc := &geminiService{modelName: "gemini-2.5-flash"}
	if apiKey == "" {
		return svc, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	svc.client = client
	return svc, nil
}

// GenerateStructured implements GeminiService. The declared schema makes the
// model return a single JSON object matching it.
func (g *geminiService) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	if g.client == nil {
		return "", ErrMissingAPIKey
	}

	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

package translation

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiTranslator uses the Gemini API. The client is created on first use.
type GeminiTranslator struct {
	apiKey string
	model  string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGeminiTranslator creates a Gemini translator
func NewGeminiTranslator(apiKey, model string) *GeminiTranslator {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiTranslator{apiKey: apiKey, model: model}
}

func (g *GeminiTranslator) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		g.client, g.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return g.client, g.clientErr
}

// Translate asks Gemini for a bare translation of text
func (g *GeminiTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("Gemini %w", ErrNoAPIKey)
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model,
		genai.Text(Prompt(text, fromLang, toLang)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.3),
			MaxOutputTokens: 50,
		})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	answer := CleanAnswer(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return answer, nil
}

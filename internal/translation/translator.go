package translation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when a provider has no credentials configured
var ErrNoAPIKey = errors.New("API key not found")

// AutoDetect as source language lets the model detect the language
const AutoDetect = "auto"

// Provider translates a single word or short phrase
type Provider interface {
	Translate(ctx context.Context, text, fromLang, toLang string) (string, error)
}

// Translator uses the OpenAI chat completion API
type Translator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewTranslator creates an OpenAI translator. An empty model selects
// gpt-4o-mini.
func NewTranslator(apiKey, model string) *Translator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Translator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Translate asks the model for a bare translation of text
func (t *Translator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI %w", ErrNoAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Prompt(text, fromLang, toLang),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return CleanAnswer(resp.Choices[0].Message.Content), nil
}

// Prompt builds the instruction sent to a chat model
func Prompt(text, fromLang, toLang string) string {
	if fromLang == "" || strings.EqualFold(fromLang, AutoDetect) {
		return fmt.Sprintf("Translate the word '%s' to %s. Respond with only the %s translation, nothing else.", text, toLang, toLang)
	}
	return fmt.Sprintf("Translate the %s word '%s' to %s. Respond with only the %s translation, nothing else.", fromLang, text, toLang, toLang)
}

// CleanAnswer strips whitespace, quotes and a trailing period
func CleanAnswer(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}

// SaveTranslation appends "word = translation" to a glossary file
func SaveTranslation(path, word, translation string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create glossary directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open glossary file: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s = %s\n", word, translation); err != nil {
		return fmt.Errorf("failed to write translation: %w", err)
	}
	return file.Close()
}

package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ChatModels returns the sorted ids of models usable for translation
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .wordloop.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	return FilterChatModels(ids), nil
}

// ListAvailableModels prints the chat models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat/Translation Models:")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}
	return nil
}

// FilterChatModels keeps chat models and drops audio, speech, image and
// embedding variants
func FilterChatModels(ids []string) []string {
	var chat []string
	for _, id := range ids {
		if !strings.Contains(id, "gpt") && !strings.Contains(id, "chat") {
			continue
		}
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "realtime") || strings.Contains(id, "transcribe") ||
			strings.Contains(id, "image") || strings.Contains(id, "embedding") {
			continue
		}
		chat = append(chat, id)
	}
	sort.Strings(chat)
	return chat
}

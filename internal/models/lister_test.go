package models

import (
	"bytes"
	"context"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	err := NewLister("").ListAvailableModels(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if !strings.Contains(err.Error(), ".wordloop.yaml") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFilterChatModels(t *testing.T) {
	ids := []string{
		"gpt-4o-mini", "tts-1", "gpt-4o-audio-preview", "dall-e-3",
		"gpt-4o", "text-embedding-3-small", "gpt-4o-realtime-preview",
		"chatgpt-4o-latest", "gpt-image-1", "whisper-1",
	}
	want := []string{"chatgpt-4o-latest", "gpt-4o", "gpt-4o-mini"}
	if got := FilterChatModels(ids); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterChatModels() = %q, want %q", got, want)
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	var buf bytes.Buffer
	if err := NewLister(apiKey).ListAvailableModels(context.Background(), &buf); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}

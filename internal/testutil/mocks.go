package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MockTranslator mocks a translation provider
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error

	mu    sync.Mutex
	Calls []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	return fmt.Sprintf("mock translation of %s", text), nil
}

// CallCount returns the number of Translate calls so far
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

package translation

import (
	"context"
	"sync"
)

// TranslationCache stores translations in memory
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(word, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[word] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(word string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[word]
	return translation, ok
}

// GetAll returns a copy of all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}

// Cached answers repeated lookups from a cache. Failed lookups are not
// cached.
type Cached struct {
	provider Provider
	cache    *TranslationCache
}

// NewCached wraps provider. A nil cache gets a fresh one.
func NewCached(provider Provider, cache *TranslationCache) *Cached {
	if cache == nil {
		cache = NewTranslationCache()
	}
	return &Cached{provider: provider, cache: cache}
}

// Translate returns a cached translation or asks the provider
func (c *Cached) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	key := fromLang + "|" + toLang + "|" + text
	if translation, ok := c.cache.Get(key); ok {
		return translation, nil
	}

	translation, err := c.provider.Translate(ctx, text, fromLang, toLang)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, translation)
	return translation, nil
}

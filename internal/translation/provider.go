package translation

import (
	"fmt"
	"os"
	"strings"
)

// Config selects and configures a provider
type Config struct {
	Provider string // openai or gemini
	APIKey   string // falls back to OPENAI_API_KEY or GEMINI_API_KEY
	Model    string
}

// Providers lists the supported provider names
var Providers = []string{"openai", "gemini"}

// New builds the configured provider wrapped with a circuit breaker and a
// cache
func New(cfg Config) (Provider, error) {
	var p Provider
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		p = NewTranslator(key, cfg.Model)
	case "gemini":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		p = NewGeminiTranslator(key, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown translation provider %q (supported: %s)", cfg.Provider, strings.Join(Providers, ", "))
	}

	opts := DefaultBreakerOptions()
	opts.Name = "translation-" + strings.ToLower(cfg.Provider)
	return NewCached(NewGuarded(p, opts), nil), nil
}

package translation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// Guarded wraps a provider with a circuit breaker. After repeated
// failures calls fail fast with gobreaker.ErrOpenState until the timeout
// has passed.
type Guarded struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker[string]
}

// BreakerOptions tunes the circuit breaker
type BreakerOptions struct {
	Name             string
	FailureThreshold uint32        // consecutive failures that open the breaker
	Timeout          time.Duration // how long the breaker stays open
}

// DefaultBreakerOptions returns the settings used by the front ends
func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		Name:             "translation",
		FailureThreshold: 3,
		Timeout:          30 * time.Second,
	}
}

// NewGuarded wraps provider
func NewGuarded(provider Provider, opts BreakerOptions) *Guarded {
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 1
	}
	return &Guarded{
		provider: provider,
		cb: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    opts.Name,
			Timeout: opts.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= opts.FailureThreshold
			},
			// a cancelled lookup says nothing about the provider
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// Translate runs the lookup through the breaker
func (g *Guarded) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	return g.cb.Execute(func() (string, error) {
		return g.provider.Translate(ctx, text, fromLang, toLang)
	})
}

// State reports the breaker state
func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}

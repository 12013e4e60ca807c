package httpx

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreaker guards an outbound endpoint, failing fast while the
// endpoint is considered down instead of holding the caller for the full
// request timeout.
type CircuitBreaker interface {
	Execute(fn func() error) error
}

type gobreakerAdapter struct {
	cb *gobreaker.CircuitBreaker
}

// NewCircuitBreaker opens after maxFailures consecutive failures. While open,
// Execute fails immediately; after cooldown a single probe request is let
// through, and a probe success closes the breaker again.
func NewCircuitBreaker(name string, cooldown time.Duration, maxFailures uint32) CircuitBreaker {
	return &gobreakerAdapter{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		}),
	}
}

func (b *gobreakerAdapter) Execute(fn func() error) error {
	if _, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	}); err != nil {
		return fmt.Errorf("breaker (%s): %w", b.cb.Name(), err)
	}
	return nil
}

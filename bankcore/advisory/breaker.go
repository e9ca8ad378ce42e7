package advisory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker wrapped around a rate provider.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig provides balanced settings for an external rate
// service.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         3,
		Interval:            2 * time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerRateProvider short-circuits calls to a failing provider until it
// recovers, instead of hammering it on every display conversion.
type BreakerRateProvider struct {
	next    RateProvider
	breaker *gobreaker.CircuitBreaker
}

// WithBreaker wraps a provider with a named circuit breaker.
func WithBreaker(next RateProvider, name string, config BreakerConfig) *BreakerRateProvider {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.ConsecutiveFailures
		},
	}

	return &BreakerRateProvider{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Rate runs the lookup through the breaker. When the breaker is open the
// call fails fast with gobreaker.ErrOpenState.
func (provider *BreakerRateProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	result, err := provider.breaker.Execute(func() (any, error) {
		return provider.next.Rate(ctx, from, to)
	})
	if err != nil {
		return decimal.Zero, err
	}

	rate, _ := result.(decimal.Decimal)

	return rate, nil
}

// State returns the breaker's current state.
func (provider *BreakerRateProvider) State() gobreaker.State {
	return provider.breaker.State()
}

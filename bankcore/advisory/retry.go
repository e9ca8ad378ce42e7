package advisory

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

const maxBackoffShift = 62

// RetryRateProvider retries a transiently failing provider with exponential
// backoff and full jitter between attempts.
type RetryRateProvider struct {
	next        RateProvider
	maxAttempts int
	baseDelay   time.Duration
}

// WithRetry wraps a provider with retry behavior. Attempts below 1 are
// treated as 1; a zero base delay disables waiting between attempts.
func WithRetry(next RateProvider, maxAttempts int, baseDelay time.Duration) *RetryRateProvider {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &RetryRateProvider{next: next, maxAttempts: maxAttempts, baseDelay: baseDelay}
}

// Rate tries the wrapped provider up to maxAttempts times. The last error
// is returned when every attempt fails; context cancellation aborts the
// wait immediately.
func (provider *RetryRateProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	var lastErr error

	for attempt := 0; attempt < provider.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, jitteredBackoff(provider.baseDelay, attempt-1)); err != nil {
				return decimal.Zero, err
			}
		}

		rate, err := provider.next.Rate(ctx, from, to)
		if err == nil {
			return rate, nil
		}

		lastErr = err
	}

	return decimal.Zero, fmt.Errorf("rate lookup failed after %d attempts: %w", provider.maxAttempts, lastErr)
}

// jitteredBackoff returns a random duration in [0, base * 2^attempt).
func jitteredBackoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}

	if attempt < 0 {
		attempt = 0
	} else if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}

	delay := base << attempt
	if delay <= 0 {
		return 0
	}

	return time.Duration(rand.Int63n(int64(delay)))
}

// sleepWithContext sleeps for the duration but respects context
// cancellation.
func sleepWithContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

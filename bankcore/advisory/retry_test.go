//go:build unit

package advisory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryRateProviderRate(t *testing.T) {
	t.Parallel()

	t.Run("succeeds first attempt without waiting", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		provider := WithRetry(RateProviderFunc(func(_ context.Context, _, _ string) (decimal.Decimal, error) {
			calls.Add(1)

			return decimal.NewFromInt(1), nil
		}), 3, time.Second)

		start := time.Now()
		rate, err := provider.Rate(context.Background(), "USD", "EUR")
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(1)))
		assert.Equal(t, int32(1), calls.Load())
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("recovers from transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		provider := WithRetry(RateProviderFunc(func(_ context.Context, _, _ string) (decimal.Decimal, error) {
			if calls.Add(1) < 3 {
				return decimal.Zero, errors.New("temporarily unavailable")
			}

			return decimal.RequireFromString("0.92"), nil
		}), 3, time.Millisecond)

		rate, err := provider.Rate(context.Background(), "USD", "EUR")
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("0.92")))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("exhausted attempts return last error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		provider := WithRetry(RateProviderFunc(func(_ context.Context, _, _ string) (decimal.Decimal, error) {
			calls.Add(1)

			return decimal.Zero, errors.New("still down")
		}), 3, time.Millisecond)

		_, err := provider.Rate(context.Background(), "USD", "EUR")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Contains(t, err.Error(), "still down")
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		provider := WithRetry(RateProviderFunc(func(_ context.Context, _, _ string) (decimal.Decimal, error) {
			cancel()

			return decimal.Zero, errors.New("down")
		}), 5, time.Minute)

		_, err := provider.Rate(ctx, "USD", "EUR")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("attempts below 1 treated as 1", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		provider := WithRetry(RateProviderFunc(func(_ context.Context, _, _ string) (decimal.Decimal, error) {
			calls.Add(1)

			return decimal.Zero, errors.New("down")
		}), 0, time.Millisecond)

		_, err := provider.Rate(context.Background(), "USD", "EUR")
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestJitteredBackoff(t *testing.T) {
	t.Parallel()

	t.Run("zero base yields zero delay", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, time.Duration(0), jitteredBackoff(0, 3))
	})

	t.Run("delay stays below the exponential ceiling", func(t *testing.T) {
		t.Parallel()

		base := 10 * time.Millisecond
		for attempt := 0; attempt < 5; attempt++ {
			ceiling := base << attempt
			for i := 0; i < 50; i++ {
				delay := jitteredBackoff(base, attempt)
				assert.GreaterOrEqual(t, delay, time.Duration(0))
				assert.Less(t, delay, ceiling)
			}
		}
	})

	t.Run("oversized attempt does not overflow", func(t *testing.T) {
		t.Parallel()

		delay := jitteredBackoff(time.Second, 1000)
		assert.GreaterOrEqual(t, delay, time.Duration(0))
	})
}

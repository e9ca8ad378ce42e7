package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateProvider supplies currency conversion rates. Implementations may fail
// transiently; callers decide how to retry.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// RateProviderFunc adapts a function to the RateProvider interface.
type RateProviderFunc func(ctx context.Context, from, to string) (decimal.Decimal, error)

// Rate calls the underlying function.
func (fn RateProviderFunc) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	return fn(ctx, from, to)
}

// StaticRateProvider serves rates from a fixed table. Unknown pairs resolve
// to the fallback rate, so display conversion never fails on an exotic
// pair.
type StaticRateProvider struct {
	rates    map[string]decimal.Decimal
	fallback decimal.Decimal
}

// NewStaticRateProvider creates a provider with the stock USD/EUR/GBP table
// and a fallback rate of 1.
func NewStaticRateProvider() *StaticRateProvider {
	return &StaticRateProvider{
		rates: map[string]decimal.Decimal{
			"USD_EUR": decimal.RequireFromString("0.92"),
			"EUR_USD": decimal.RequireFromString("1.09"),
			"USD_GBP": decimal.RequireFromString("0.79"),
			"GBP_USD": decimal.RequireFromString("1.27"),
		},
		fallback: decimal.NewFromInt(1),
	}
}

// SetRate adds or overrides one currency pair.
func (provider *StaticRateProvider) SetRate(from, to string, rate decimal.Decimal) {
	provider.rates[rateKey(from, to)] = rate
}

// Rate returns the table rate for the pair, or the fallback for unknown
// pairs.
func (provider *StaticRateProvider) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	if rate, ok := provider.rates[rateKey(from, to)]; ok {
		return rate, nil
	}

	return provider.fallback, nil
}

func rateKey(from, to string) string {
	return fmt.Sprintf("%s_%s", strings.ToUpper(from), strings.ToUpper(to))
}

// Convert applies the provider's rate to an amount. Display-only: a
// provider failure is surfaced to the caller and affects no ledger state.
func Convert(ctx context.Context, provider RateProvider, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := provider.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate lookup %s->%s: %w", from, to, err)
	}

	return amount.Mul(rate), nil
}

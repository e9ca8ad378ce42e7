package advisory

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
)

// FraudScorer flags a proposed withdrawal as suspicious based on the
// account's ledger history. Advisory only: a suspicious verdict never
// blocks the operation.
type FraudScorer interface {
	Suspicious(history []ledger.Entry, amount decimal.Decimal) bool
}

// FraudScorerFunc adapts a function to the FraudScorer interface.
type FraudScorerFunc func(history []ledger.Entry, amount decimal.Decimal) bool

// Suspicious calls the underlying function.
func (fn FraudScorerFunc) Suspicious(history []ledger.Entry, amount decimal.Decimal) bool {
	return fn(history, amount)
}

// ThresholdScorer flags amounts that exceed a multiple of the account's
// average withdrawal.
type ThresholdScorer struct {
	multiplier decimal.Decimal
}

// NewThresholdScorer creates a scorer with the given multiplier. A
// non-positive multiplier falls back to the stock value of 3.
func NewThresholdScorer(multiplier decimal.Decimal) *ThresholdScorer {
	if !multiplier.IsPositive() {
		multiplier = decimal.NewFromInt(3)
	}

	return &ThresholdScorer{multiplier: multiplier}
}

// Suspicious reports whether amount exceeds multiplier times the average of
// past withdrawals. An account with no withdrawal history is never flagged;
// there is no baseline to compare against.
func (scorer *ThresholdScorer) Suspicious(history []ledger.Entry, amount decimal.Decimal) bool {
	total := decimal.Zero
	count := int64(0)

	for _, entry := range history {
		if entry.Type != ledger.EntryTypeWithdrawal {
			continue
		}

		total = total.Add(entry.Amount)
		count++
	}

	if count == 0 {
		return false
	}

	average := total.Div(decimal.NewFromInt(count))

	return amount.GreaterThan(average.Mul(scorer.multiplier))
}

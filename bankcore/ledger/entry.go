package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType classifies a balance-affecting event.
type EntryType string

const (
	// EntryTypeDeposit records money added to the balance.
	EntryTypeDeposit EntryType = "deposit"
	// EntryTypeWithdrawal records money removed from the balance.
	EntryTypeWithdrawal EntryType = "withdrawal"
	// EntryTypeTransfer records either leg of a cross-account transfer.
	EntryTypeTransfer EntryType = "transfer"
	// EntryTypeLoan records a granted loan credited to the balance.
	EntryTypeLoan EntryType = "loan"
	// EntryTypeRepayment records a loan repayment debited from the balance.
	EntryTypeRepayment EntryType = "repayment"
	// EntryTypeFee records a service fee debited from the balance.
	EntryTypeFee EntryType = "fee"
	// EntryTypeInterest records interest credited to the balance.
	EntryTypeInterest EntryType = "interest"
)

// ParseEntryType maps a string onto an EntryType. Unknown strings fall back
// to EntryTypeFee and return false; callers importing external data must
// treat that as a data-quality warning and log the rejected value.
func ParseEntryType(s string) (EntryType, bool) {
	switch EntryType(s) {
	case EntryTypeDeposit, EntryTypeWithdrawal, EntryTypeTransfer,
		EntryTypeLoan, EntryTypeRepayment, EntryTypeFee, EntryTypeInterest:
		return EntryType(s), true
	default:
		return EntryTypeFee, false
	}
}

// ErrNonPositiveAmount is returned when an entry amount is zero or negative.
var ErrNonPositiveAmount = errors.New("ledger: entry amount must be positive")

// Entry is an immutable record of one balance-affecting event.
type Entry struct {
	ID          string          `json:"id"`
	Type        EntryType       `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Provider    string          `json:"provider"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewEntry creates an entry with a generated id. The amount must be strictly
// positive regardless of direction; the type carries the direction semantics.
func NewEntry(entryType EntryType, amount decimal.Decimal, description, provider string, timestamp time.Time) (Entry, error) {
	if !amount.IsPositive() {
		return Entry{}, ErrNonPositiveAmount
	}

	return Entry{
		ID:          uuid.NewString(),
		Type:        entryType,
		Amount:      amount,
		Description: description,
		Provider:    provider,
		Timestamp:   timestamp,
	}, nil
}

// String returns the human-readable form of the entry.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s $%s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Description, e.Amount.StringFixed(2))
}

// Age returns how long ago the entry was recorded.
func (e Entry) Age() time.Duration {
	return time.Since(e.Timestamp)
}

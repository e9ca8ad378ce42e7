package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result is the structured outcome of a ledger-mutating operation. A caller
// never needs to inspect account state to know what happened: Success and
// Message describe the outcome, NewBalance reflects the balance after the
// call (unchanged when Success is false).
type Result struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Timestamp  time.Time       `json:"timestamp"`
	ResultID   string          `json:"result_id"`
}

func newResult(success bool, message string, amount, newBalance decimal.Decimal, at time.Time) Result {
	return Result{
		Success:    success,
		Message:    message,
		Amount:     amount,
		NewBalance: newBalance,
		Timestamp:  at,
		ResultID:   uuid.NewString(),
	}
}

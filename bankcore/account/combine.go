package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
)

// Combine produces a new account holding the summed balances and savings of
// both operands, the larger credit limit, and the concatenated transaction
// histories. Neither operand is modified; accounts are never merged in
// place.
func Combine(a, b *Account, opts ...Option) (*Account, error) {
	if a == nil || b == nil {
		return nil, NewDomainError(ErrorInvalidArgument, "account", "both accounts are required")
	}

	if a.Equal(b) {
		return nil, NewDomainError(ErrorInvalidArgument, "account", "cannot combine an account with itself")
	}

	unlock := lockPair(a, b)

	name := fmt.Sprintf("%s+%s", a.name, b.name)
	balance := a.balance.Add(b.balance)
	savings := a.savings.Add(b.savings)
	creditLimit := decimal.Max(a.creditLimit, b.creditLimit)

	entries := make([]ledger.Entry, 0, len(a.entries)+len(b.entries))
	entries = append(entries, a.entries...)
	entries = append(entries, b.entries...)

	unlock()

	combined, err := New(balance, name, append([]Option{WithCreditLimit(creditLimit)}, opts...)...)
	if err != nil {
		return nil, err
	}

	combined.savings = savings
	combined.entries = entries

	return combined, nil
}

// WithdrawCopy produces a new account equal to a minus the amount, leaving a
// unmodified. It fails with InsufficientFunds when the copy would breach the
// credit limit floor.
func WithdrawCopy(a *Account, amount decimal.Decimal, opts ...Option) (*Account, error) {
	if !amount.IsPositive() {
		return nil, NewDomainError(ErrorInvalidArgument, "amount", "withdrawal amount must be positive")
	}

	a.mu.Lock()

	if a.balance.Sub(amount).LessThan(a.creditLimit.Neg()) {
		a.mu.Unlock()

		return nil, NewDomainError(ErrorInsufficientFunds, "amount", "insufficient funds for this operation")
	}

	name := a.name
	balance := a.balance.Sub(amount)
	savings := a.savings
	creditLimit := a.creditLimit
	provider := a.provider

	entries := make([]ledger.Entry, len(a.entries))
	copy(entries, a.entries)

	a.mu.Unlock()

	// The copy may start in overdraft, which New rejects; construct at zero
	// and assign the computed balance afterwards.
	copied, err := New(decimal.Zero, name, append([]Option{WithCreditLimit(creditLimit), WithProvider(provider)}, opts...)...)
	if err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(ledger.EntryTypeWithdrawal, amount, "Subtracted amount", provider, copied.now())
	if err != nil {
		return nil, err
	}

	copied.balance = balance
	copied.savings = savings
	copied.entries = append(entries, entry)

	return copied, nil
}

// CompareBalance compares the balances of two accounts: -1 when a holds
// less than b, 0 when equal, +1 when a holds more.
func CompareBalance(a, b *Account) int {
	if a.Equal(b) {
		return 0
	}

	unlock := lockPair(a, b)
	defer unlock()

	return a.balance.Cmp(b.balance)
}

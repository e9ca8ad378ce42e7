package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
	"github.com/ledgerline/lib-bankcore/bankcore/log"
)

// Status represents the lifecycle state of an account.
type Status string

const (
	StatusActive    Status = "active"
	StatusLocked    Status = "locked"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

// ParseStatus maps a string onto a Status. Unknown strings fall back to
// StatusActive and return false; callers importing external data must log
// the fallback as a data-quality warning.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusLocked, StatusSuspended, StatusClosed:
		return Status(s), true
	default:
		return StatusActive, false
	}
}

const (
	defaultCreditLimit           = 200
	defaultCreditScore           = 500
	defaultAutoSavingsPercentage = 5
	defaultProvider              = "Default"
	maintenanceFee               = 5
)

var oneHundred = decimal.NewFromInt(100)

// Account holds the balance, savings, and credit state for one customer
// account, together with its ordered transaction history. It owns its
// security gate, loan ledger, and link registry.
//
// All mutations serialize behind one mutex and run inside the transaction
// guard, so a failing operation leaves balance and savings exactly as they
// were before the call.
type Account struct {
	mu sync.Mutex

	id             string
	name           string
	provider       string
	status         Status
	balance        decimal.Decimal
	savings        decimal.Decimal
	creditLimit    decimal.Decimal
	creditScore    int
	autoSavingsPct decimal.Decimal
	entries        []ledger.Entry
	lastActivity   time.Time

	gate  *Gate
	loans *LoanLedger
	links *LinkRegistry

	logger log.Logger
	now    func() time.Time
}

// Option configures optional account settings at construction time.
type Option func(*Account)

// WithCreditLimit overrides the default credit limit of 200.
func WithCreditLimit(limit decimal.Decimal) Option {
	return func(acct *Account) { acct.creditLimit = limit }
}

// WithProvider sets the bank provider label.
func WithProvider(provider string) Option {
	return func(acct *Account) { acct.provider = provider }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(acct *Account) { acct.logger = logger }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(acct *Account) { acct.now = now }
}

// withID preserves an existing account id on import.
func withID(id string) Option {
	return func(acct *Account) { acct.id = id }
}

// New creates an account with the given initial balance and display name.
// The initial balance must be non-negative.
func New(initialAmount decimal.Decimal, name string, opts ...Option) (*Account, error) {
	if initialAmount.IsNegative() {
		return nil, NewDomainError(ErrorInvalidArgument, "initialAmount", "initial balance cannot be negative")
	}

	acct := &Account{
		name:           name,
		provider:       defaultProvider,
		status:         StatusActive,
		balance:        initialAmount,
		creditLimit:    decimal.NewFromInt(defaultCreditLimit),
		creditScore:    defaultCreditScore,
		autoSavingsPct: decimal.NewFromInt(defaultAutoSavingsPercentage),
		logger:         log.NewNop(),
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(acct)
	}

	if acct.creditLimit.IsNegative() {
		return nil, NewDomainError(ErrorInvalidArgument, "creditLimit", "credit limit cannot be negative")
	}

	acct.lastActivity = acct.now()
	if acct.id == "" {
		acct.id = newAccountID(name, initialAmount, acct.lastActivity)
	}

	acct.gate = newGate(acct.id, name, acct.logger, acct.now)
	acct.loans = newLoanLedger(acct)
	acct.links = newLinkRegistry(acct)

	acct.logger.Log(context.Background(), log.LevelInfo, "account created",
		log.String("account_id", acct.id),
		log.String("name", name),
		log.Decimal("balance", acct.balance),
	)

	return acct, nil
}

// newAccountID derives a stable id from the name, the initial amount, and
// the creation time. Collisions are negligible, not impossible.
func newAccountID(name string, amount decimal.Decimal, at time.Time) string {
	seed := fmt.Sprintf("%s|%s|%s", name, amount.String(), at.Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(seed))

	return hex.EncodeToString(sum[:])[:12]
}

// ID returns the stable account identifier.
func (acct *Account) ID() string { return acct.id }

// Name returns the display name.
func (acct *Account) Name() string { return acct.name }

// Provider returns the bank provider label.
func (acct *Account) Provider() string {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.provider
}

// Status returns the lifecycle status.
func (acct *Account) Status() Status {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.status
}

// Close marks the account closed. Closed accounts are never deleted.
func (acct *Account) Close() {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	acct.status = StatusClosed
	acct.logger.Log(context.Background(), log.LevelInfo, "account closed",
		log.String("account_id", acct.id))
}

// Balance returns the current balance. It may be negative down to the
// credit limit floor.
func (acct *Account) Balance() decimal.Decimal {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.balance
}

// Savings returns the accumulated savings. Never negative.
func (acct *Account) Savings() decimal.Decimal {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.savings
}

// CreditLimit returns the overdraft floor magnitude.
func (acct *Account) CreditLimit() decimal.Decimal {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.creditLimit
}

// CreditScore returns the current credit score. Only loan grant and repay
// mutate it.
func (acct *Account) CreditScore() int {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.creditScore
}

// AutoSavingsPercentage returns the fraction of each deposit diverted to
// savings, in percent.
func (acct *Account) AutoSavingsPercentage() decimal.Decimal {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.autoSavingsPct
}

// Entries returns a copy of the ordered transaction history.
func (acct *Account) Entries() []ledger.Entry {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	out := make([]ledger.Entry, len(acct.entries))
	copy(out, acct.entries)

	return out
}

// LastActivity returns the timestamp of the most recent mutation.
func (acct *Account) LastActivity() time.Time {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.lastActivity
}

// Gate returns the account's security gate.
func (acct *Account) Gate() *Gate { return acct.gate }

// Loans returns the account's loan ledger.
func (acct *Account) Loans() *LoanLedger { return acct.loans }

// Links returns the account's link registry.
func (acct *Account) Links() *LinkRegistry { return acct.links }

// Equal reports whether both accounts share the same identity.
func (acct *Account) Equal(other *Account) bool {
	return other != nil && acct.id == other.id
}

// String returns the human-readable account summary.
func (acct *Account) String() string {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return fmt.Sprintf("Account: %s (ID: %s) | Balance: $%s | Savings: $%s",
		acct.name, acct.id, acct.balance.StringFixed(2), acct.savings.StringFixed(2))
}

// Deposit adds money to the account, splitting the amount between balance
// and savings according to the auto-savings percentage. Both updates happen
// inside one transaction guard.
//
// Returns a SecurityBlocked domain error when the gate is locked. This is
// deliberately asymmetric with Withdraw, which reports a locked gate as a
// failed Result instead.
func (acct *Account) Deposit(amount decimal.Decimal, description string) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, NewDomainError(ErrorInvalidArgument, "amount", "deposit amount must be positive")
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	if err := acct.gate.CheckAllowed("deposit"); err != nil {
		return Result{}, err
	}

	saved := amount.Mul(acct.autoSavingsPct).Div(oneHundred)

	err := acct.withGuard("deposit", func() error {
		entry, err := ledger.NewEntry(
			ledger.EntryTypeDeposit,
			amount,
			fmt.Sprintf("%s | Auto-Saved $%s", description, saved.StringFixed(2)),
			acct.provider,
			acct.now(),
		)
		if err != nil {
			return err
		}

		acct.balance = acct.balance.Add(amount.Sub(saved))
		acct.savings = acct.savings.Add(saved)
		acct.appendEntry(entry)

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	message := fmt.Sprintf("Deposited $%s. Auto-Saved: $%s", amount.StringFixed(2), saved.StringFixed(2))

	return newResult(true, message, amount, acct.balance, acct.now()), nil
}

// Withdraw removes money from the account. It succeeds iff the resulting
// balance stays at or above the credit limit floor.
//
// A locked gate or insufficient funds yield a failed Result with no state
// change and no error; see Deposit for the deliberate asymmetry.
func (acct *Account) Withdraw(amount decimal.Decimal, description string) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, NewDomainError(ErrorInvalidArgument, "amount", "withdrawal amount must be positive")
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.gate.Locked() {
		message := fmt.Sprintf("Withdrawal Failed: Account '%s' is LOCKED", acct.name)

		return newResult(false, message, amount, acct.balance, acct.now()), nil
	}

	if acct.balance.Sub(amount).LessThan(acct.creditLimit.Neg()) {
		return newResult(false, "Insufficient funds, even with overdraft", amount, acct.balance, acct.now()), nil
	}

	err := acct.withGuard("withdraw", func() error {
		entry, err := ledger.NewEntry(ledger.EntryTypeWithdrawal, amount, description, acct.provider, acct.now())
		if err != nil {
			return err
		}

		acct.balance = acct.balance.Sub(amount)
		acct.appendEntry(entry)

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	message := fmt.Sprintf("Withdrawn $%s. New balance: $%s", amount.StringFixed(2), acct.balance.StringFixed(2))

	return newResult(true, message, amount, acct.balance, acct.now()), nil
}

// DeductMaintenanceFee debits the fixed maintenance fee. The deduction is
// skipped entirely when it would breach the credit limit floor.
func (acct *Account) DeductMaintenanceFee() Result {
	fee := decimal.NewFromInt(maintenanceFee)

	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.balance.Sub(fee).LessThan(acct.creditLimit.Neg()) {
		return newResult(false, "Insufficient funds to deduct maintenance fee", fee, acct.balance, acct.now())
	}

	err := acct.withGuard("maintenance_fee", func() error {
		entry, err := ledger.NewEntry(ledger.EntryTypeFee, fee, "Maintenance Fee Deducted", acct.provider, acct.now())
		if err != nil {
			return err
		}

		acct.balance = acct.balance.Sub(fee)
		acct.appendEntry(entry)

		return nil
	})
	if err != nil {
		return newResult(false, err.Error(), fee, acct.balance, acct.now())
	}

	message := fmt.Sprintf("Maintenance Fee Deducted: $%s", fee.StringFixed(2))

	return newResult(true, message, fee, acct.balance, acct.now())
}

// EnableAutoSavings sets the percentage of each deposit diverted to savings.
func (acct *Account) EnableAutoSavings(percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(oneHundred) {
		return NewDomainError(ErrorInvalidArgument, "percentage", "auto-savings percentage must be between 0 and 100")
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	acct.autoSavingsPct = percentage
	acct.logger.Log(context.Background(), log.LevelInfo, "auto-savings updated",
		log.String("account_id", acct.id),
		log.Decimal("percentage", percentage),
	)

	return nil
}

// Lock locks the account against protected operations.
func (acct *Account) Lock() { acct.gate.Lock() }

// Unlock attempts to unlock the account with the given verification code.
// An empty code counts as absent and unlocks.
func (acct *Account) Unlock(code string) bool { return acct.gate.Unlock(code) }

// Locked reports whether the security gate is locked.
func (acct *Account) Locked() bool { return acct.gate.Locked() }

// appendEntry appends to the history and bumps the activity timestamp.
// Caller must hold acct.mu.
func (acct *Account) appendEntry(entry ledger.Entry) {
	acct.entries = append(acct.entries, entry)
	acct.lastActivity = entry.Timestamp
}

// balancesSnapshot returns (balance, savings) under the account mutex.
func (acct *Account) balancesSnapshot() (decimal.Decimal, decimal.Decimal) {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	return acct.balance, acct.savings
}

package account

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
	"github.com/ledgerline/lib-bankcore/bankcore/log"
)

// State is the plain attribute-bag view of an account, handed to external
// serialization collaborators. It carries no behavior and no references to
// live objects.
type State struct {
	AccountID             string            `json:"account_id"`
	Name                  string            `json:"name"`
	Provider              string            `json:"provider"`
	Status                string            `json:"status"`
	Balance               decimal.Decimal   `json:"balance"`
	Savings               decimal.Decimal   `json:"savings"`
	CreditLimit           decimal.Decimal   `json:"credit_limit"`
	CreditScore           int               `json:"credit_score"`
	AutoSavingsPercentage decimal.Decimal   `json:"auto_savings_percentage"`
	Entries               []EntryState      `json:"transactions"`
	LoanBalance           decimal.Decimal   `json:"loan_balance"`
	InterestRate          decimal.Decimal   `json:"interest_rate"`
	LoanHistory           []LoanRecordState `json:"loan_history"`
	LinkedProviders       []string          `json:"linked_accounts"`
	LastActivity          time.Time         `json:"last_transaction_time"`
}

// EntryState is the attribute-bag view of one ledger entry.
type EntryState struct {
	ID          string          `json:"transaction_id"`
	Type        string          `json:"transaction_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Provider    string          `json:"provider"`
	Timestamp   time.Time       `json:"timestamp"`
}

// LoanRecordState is the attribute-bag view of one loan history record.
type LoanRecordState struct {
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Type         string          `json:"loan_type"`
	Status       string          `json:"status"`
}

// Snapshot exports the account as a State. Linked accounts appear as
// provider names only; the links themselves are not serializable.
func (acct *Account) Snapshot() State {
	// Provider names come from the registry before the account mutex is
	// taken: registry then account is the lock order everywhere else.
	linkedProviders := acct.links.Providers()

	acct.mu.Lock()
	defer acct.mu.Unlock()

	entries := make([]EntryState, 0, len(acct.entries))
	for _, entry := range acct.entries {
		entries = append(entries, EntryState{
			ID:          entry.ID,
			Type:        string(entry.Type),
			Amount:      entry.Amount,
			Description: entry.Description,
			Provider:    entry.Provider,
			Timestamp:   entry.Timestamp,
		})
	}

	loanHistory := make([]LoanRecordState, 0, len(acct.loans.history))
	for _, record := range acct.loans.history {
		loanHistory = append(loanHistory, LoanRecordState{
			Date:         record.Date,
			Amount:       record.Amount,
			InterestRate: record.InterestRate,
			Type:         string(record.Type),
			Status:       string(record.Status),
		})
	}

	return State{
		AccountID:             acct.id,
		Name:                  acct.name,
		Provider:              acct.provider,
		Status:                string(acct.status),
		Balance:               acct.balance,
		Savings:               acct.savings,
		CreditLimit:           acct.creditLimit,
		CreditScore:           acct.creditScore,
		AutoSavingsPercentage: acct.autoSavingsPct,
		Entries:               entries,
		LoanBalance:           acct.loans.outstanding,
		InterestRate:          acct.loans.rate,
		LoanHistory:           loanHistory,
		LinkedProviders:       linkedProviders,
		LastActivity:          acct.lastActivity,
	}
}

// FromState reconstructs an account from a State, re-validating the same
// invariants as construction. Malformed status and entry-type strings fall
// back to their defined defaults with a logged data-quality warning rather
// than failing the import. Linked providers are informational only; links
// must be re-established against live accounts.
func FromState(state State, opts ...Option) (*Account, error) {
	if state.AccountID == "" {
		return nil, NewDomainError(ErrorInvalidArgument, "account_id", "account id is required")
	}

	if state.Savings.IsNegative() {
		return nil, NewDomainError(ErrorInvalidArgument, "savings", "savings cannot be negative")
	}

	if state.CreditLimit.IsNegative() {
		return nil, NewDomainError(ErrorInvalidArgument, "credit_limit", "credit limit cannot be negative")
	}

	if state.Balance.LessThan(state.CreditLimit.Neg()) {
		return nil, NewDomainError(ErrorInvalidArgument, "balance", "balance breaches the credit limit floor")
	}

	if state.AutoSavingsPercentage.IsNegative() || state.AutoSavingsPercentage.GreaterThan(oneHundred) {
		return nil, NewDomainError(ErrorInvalidArgument, "auto_savings_percentage", "auto-savings percentage must be between 0 and 100")
	}

	if state.LoanBalance.IsNegative() {
		return nil, NewDomainError(ErrorInvalidArgument, "loan_balance", "loan balance cannot be negative")
	}

	acct, err := New(decimal.Zero, state.Name,
		append([]Option{
			withID(state.AccountID),
			WithCreditLimit(state.CreditLimit),
			WithProvider(state.Provider),
		}, opts...)...,
	)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	status, ok := ParseStatus(state.Status)
	if !ok {
		acct.logger.Log(ctx, log.LevelWarn, "unknown account status on import, defaulting",
			log.String("account_id", state.AccountID),
			log.String("status", state.Status),
			log.String("default", string(status)),
		)
	}

	acct.status = status
	acct.balance = state.Balance
	acct.savings = state.Savings
	acct.creditScore = state.CreditScore
	acct.autoSavingsPct = state.AutoSavingsPercentage
	acct.lastActivity = state.LastActivity

	acct.entries = make([]ledger.Entry, 0, len(state.Entries))
	for _, entry := range state.Entries {
		entryType, ok := ledger.ParseEntryType(entry.Type)
		if !ok {
			acct.logger.Log(ctx, log.LevelWarn, "unknown entry type on import, defaulting to fee",
				log.String("account_id", state.AccountID),
				log.String("entry_id", entry.ID),
				log.String("entry_type", entry.Type),
			)
		}

		acct.entries = append(acct.entries, ledger.Entry{
			ID:          entry.ID,
			Type:        entryType,
			Amount:      entry.Amount,
			Description: entry.Description,
			Provider:    entry.Provider,
			Timestamp:   entry.Timestamp,
		})
	}

	acct.loans.outstanding = state.LoanBalance
	acct.loans.rate = state.InterestRate

	acct.loans.history = make([]LoanRecord, 0, len(state.LoanHistory))
	for _, record := range state.LoanHistory {
		status := LoanStatus(record.Status)
		if status != LoanStatusActive && status != LoanStatusRepaid {
			acct.logger.Log(ctx, log.LevelWarn, "unknown loan status on import, defaulting to active",
				log.String("account_id", state.AccountID),
				log.String("loan_status", record.Status),
			)

			status = LoanStatusActive
		}

		acct.loans.history = append(acct.loans.history, LoanRecord{
			Date:         record.Date,
			Amount:       record.Amount,
			InterestRate: record.InterestRate,
			Type:         LoanType(record.Type),
			Status:       status,
		})
	}

	return acct, nil
}

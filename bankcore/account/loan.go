package account

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
	"github.com/ledgerline/lib-bankcore/bankcore/log"
)

// LoanType selects the approval multiplier and interest rate policy.
type LoanType string

const (
	LoanTypePersonal LoanType = "personal"
	LoanTypeAuto     LoanType = "auto"
	LoanTypeMortgage LoanType = "mortgage"
	LoanTypeBusiness LoanType = "business"
)

// LoanStatus is the lifecycle state of one loan record.
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusRepaid LoanStatus = "repaid"
)

// loanMultipliers caps the approvable amount at creditScore * multiplier.
var loanMultipliers = map[LoanType]decimal.Decimal{
	LoanTypePersonal: decimal.NewFromInt(2),
	LoanTypeAuto:     decimal.NewFromInt(3),
	LoanTypeMortgage: decimal.NewFromInt(10),
	LoanTypeBusiness: decimal.NewFromInt(5),
}

// loanFallbackMultiplier applies to unrecognized loan types.
var loanFallbackMultiplier = decimal.RequireFromString("1.5")

// loanRates is the fixed per-type interest rate table.
var loanRates = map[LoanType]decimal.Decimal{
	LoanTypePersonal: decimal.RequireFromString("0.05"),
	LoanTypeAuto:     decimal.RequireFromString("0.035"),
	LoanTypeMortgage: decimal.RequireFromString("0.025"),
	LoanTypeBusiness: decimal.RequireFromString("0.06"),
}

const (
	creditScoreLoanPenalty = 30
	creditScoreRepayReward = 20
)

// LoanRecord is one entry in the loan history.
type LoanRecord struct {
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Type         LoanType        `json:"loan_type"`
	Status       LoanStatus      `json:"status"`
}

// LoanLedger tracks at most one outstanding loan per account, with an
// approval limit derived from the credit score.
type LoanLedger struct {
	acct *Account

	outstanding decimal.Decimal
	rate        decimal.Decimal
	history     []LoanRecord
}

func newLoanLedger(acct *Account) *LoanLedger {
	return &LoanLedger{
		acct: acct,
		rate: loanRates[LoanTypePersonal],
	}
}

// multiplierFor returns the approval multiplier for a loan type, falling
// back to the conservative default for unknown types.
func multiplierFor(loanType LoanType) decimal.Decimal {
	if multiplier, ok := loanMultipliers[loanType]; ok {
		return multiplier
	}

	return loanFallbackMultiplier
}

// rateFor returns the interest rate for a loan type, defaulting to the
// personal rate for unknown types.
func rateFor(loanType LoanType) decimal.Decimal {
	if rate, ok := loanRates[loanType]; ok {
		return rate
	}

	return loanRates[LoanTypePersonal]
}

// MaxApproved returns the largest amount that would be approved for the
// requested amount and loan type: min(requested, creditScore * multiplier).
func (loans *LoanLedger) MaxApproved(requested decimal.Decimal, loanType LoanType) decimal.Decimal {
	loans.acct.mu.Lock()
	defer loans.acct.mu.Unlock()

	return loans.maxApprovedLocked(requested, loanType)
}

func (loans *LoanLedger) maxApprovedLocked(requested decimal.Decimal, loanType LoanType) decimal.Decimal {
	ceiling := decimal.NewFromInt(int64(loans.acct.creditScore)).Mul(multiplierFor(loanType))

	return decimal.Min(ceiling, requested)
}

// RequestLoan grants a loan when no loan is outstanding and the amount is
// within the credit-score-derived ceiling. On success the loan amount is
// credited to the balance, the credit score drops by 30, and a loan entry
// plus an active history record are appended, all inside one guard.
func (loans *LoanLedger) RequestLoan(amount decimal.Decimal, loanType LoanType) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, NewDomainError(ErrorInvalidArgument, "amount", "loan amount must be positive")
	}

	acct := loans.acct

	acct.mu.Lock()
	defer acct.mu.Unlock()

	if loans.outstanding.IsPositive() {
		return newResult(false, "Loan Request Denied: You have an active loan", amount, acct.balance, acct.now()), nil
	}

	maxApproved := loans.maxApprovedLocked(amount, loanType)
	if amount.GreaterThan(maxApproved) {
		message := fmt.Sprintf("Loan Request Denied: Max you can borrow is $%s", maxApproved.StringFixed(2))

		return newResult(false, message, amount, acct.balance, acct.now()), nil
	}

	rate := rateFor(loanType)
	prevScore := acct.creditScore
	prevRate := loans.rate

	err := acct.withGuard("loan_request", func() error {
		entry, err := ledger.NewEntry(
			ledger.EntryTypeLoan,
			amount,
			fmt.Sprintf("Loan approved: %s loan", loanType),
			acct.provider,
			acct.now(),
		)
		if err != nil {
			return err
		}

		loans.outstanding = amount
		loans.rate = rate
		acct.balance = acct.balance.Add(amount)
		acct.creditScore -= creditScoreLoanPenalty
		acct.appendEntry(entry)

		loans.history = append(loans.history, LoanRecord{
			Date:         acct.now(),
			Amount:       amount,
			InterestRate: rate,
			Type:         loanType,
			Status:       LoanStatusActive,
		})

		return nil
	})
	if err != nil {
		loans.outstanding = decimal.Zero
		loans.rate = prevRate
		acct.creditScore = prevScore

		return Result{}, err
	}

	acct.logger.Log(context.Background(), log.LevelInfo, "loan approved",
		log.String("account_id", acct.id),
		log.Decimal("amount", amount),
		log.String("loan_type", string(loanType)),
	)

	message := fmt.Sprintf("Loan Approved! Borrowed $%s", amount.StringFixed(2))

	return newResult(true, message, amount, acct.balance, acct.now()), nil
}

// RepayLoan pays down the outstanding loan. Repaying more than the loan
// balance or more than the account balance fails with no state change. The
// credit score rises by 20 per repayment; when the loan reaches exactly
// zero, the most recent history record is marked repaid.
func (loans *LoanLedger) RepayLoan(amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, NewDomainError(ErrorInvalidArgument, "amount", "repayment amount must be positive")
	}

	acct := loans.acct

	acct.mu.Lock()
	defer acct.mu.Unlock()

	if amount.GreaterThan(loans.outstanding) {
		return newResult(false, "You can't repay more than your loan balance", amount, acct.balance, acct.now()), nil
	}

	if acct.balance.LessThan(amount) {
		return newResult(false, "Insufficient funds to repay loan", amount, acct.balance, acct.now()), nil
	}

	prevOutstanding := loans.outstanding
	prevScore := acct.creditScore

	err := acct.withGuard("loan_repayment", func() error {
		entry, err := ledger.NewEntry(ledger.EntryTypeRepayment, amount, "Repaid loan amount", acct.provider, acct.now())
		if err != nil {
			return err
		}

		acct.balance = acct.balance.Sub(amount)
		loans.outstanding = loans.outstanding.Sub(amount)
		acct.creditScore += creditScoreRepayReward
		acct.appendEntry(entry)

		if loans.outstanding.IsZero() && len(loans.history) > 0 {
			loans.history[len(loans.history)-1].Status = LoanStatusRepaid
		}

		return nil
	})
	if err != nil {
		loans.outstanding = prevOutstanding
		acct.creditScore = prevScore

		return Result{}, err
	}

	message := fmt.Sprintf("Repaid $%s. Remaining Loan: $%s", amount.StringFixed(2), loans.outstanding.StringFixed(2))

	return newResult(true, message, amount, acct.balance, acct.now()), nil
}

// Outstanding returns the current loan balance.
func (loans *LoanLedger) Outstanding() decimal.Decimal {
	loans.acct.mu.Lock()
	defer loans.acct.mu.Unlock()

	return loans.outstanding
}

// InterestRate returns the rate of the current or most recent loan.
func (loans *LoanLedger) InterestRate() decimal.Decimal {
	loans.acct.mu.Lock()
	defer loans.acct.mu.Unlock()

	return loans.rate
}

// History returns a copy of the loan history.
func (loans *LoanLedger) History() []LoanRecord {
	loans.acct.mu.Lock()
	defer loans.acct.mu.Unlock()

	out := make([]LoanRecord, len(loans.history))
	copy(out, loans.history)

	return out
}

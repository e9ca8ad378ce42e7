//go:build unit

package account

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
)

func TestCombine(t *testing.T) {
	t.Parallel()

	t.Run("sums balances, keeps larger limit, concatenates history", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "1000", WithCreditLimit(decimal.NewFromInt(200)))
		b := newTestAccount(t, "500", WithCreditLimit(decimal.NewFromInt(400)))

		_, err := a.Deposit(decimal.NewFromInt(100), "Salary")
		require.NoError(t, err)
		_, err = b.Withdraw(decimal.NewFromInt(50), "Groceries")
		require.NoError(t, err)

		combined, err := Combine(a, b)
		require.NoError(t, err)

		// a: 1095 + 5 savings, b: 450.
		assert.True(t, combined.Balance().Equal(decimal.NewFromInt(1545)),
			"expected 1545, got %s", combined.Balance())
		assert.True(t, combined.Savings().Equal(decimal.NewFromInt(5)))
		assert.True(t, combined.CreditLimit().Equal(decimal.NewFromInt(400)))
		assert.Equal(t, "Test Account+Test Account", combined.Name())
		assert.NotEqual(t, a.ID(), combined.ID())
		assert.NotEqual(t, b.ID(), combined.ID())

		history := combined.Entries()
		require.Len(t, history, 2)
		assert.Equal(t, ledger.EntryTypeDeposit, history[0].Type)
		assert.Equal(t, ledger.EntryTypeWithdrawal, history[1].Type)
	})

	t.Run("operands are unmodified", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "1000")
		b := newTestAccount(t, "500")

		_, err := Combine(a, b)
		require.NoError(t, err)

		assert.True(t, a.Balance().Equal(decimal.NewFromInt(1000)))
		assert.True(t, b.Balance().Equal(decimal.NewFromInt(500)))
	})

	t.Run("nil operand rejected", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "1000")

		_, err := Combine(a, nil)
		require.Error(t, err)
	})

	t.Run("self-combine rejected", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "1000")

		_, err := Combine(a, a)
		require.Error(t, err)

		var domainErr DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrorInvalidArgument, domainErr.Code)
	})
}

func TestWithdrawCopy(t *testing.T) {
	t.Parallel()

	t.Run("copy carries the reduced balance", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "1000")

		copied, err := WithdrawCopy(a, decimal.NewFromInt(300))
		require.NoError(t, err)

		assert.True(t, copied.Balance().Equal(decimal.NewFromInt(700)))
		assert.True(t, a.Balance().Equal(decimal.NewFromInt(1000)), "original must be unmodified")
		assert.NotEqual(t, a.ID(), copied.ID())

		history := copied.Entries()
		require.Len(t, history, 1)
		assert.Equal(t, ledger.EntryTypeWithdrawal, history[0].Type)
		assert.Equal(t, "Subtracted amount", history[0].Description)
	})

	t.Run("copy may start in overdraft", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "100")

		copied, err := WithdrawCopy(a, decimal.NewFromInt(250))
		require.NoError(t, err)

		assert.True(t, copied.Balance().Equal(decimal.NewFromInt(-150)))
	})

	t.Run("floor breach rejected", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "100")

		_, err := WithdrawCopy(a, decimal.NewFromInt(350))
		require.Error(t, err)

		var domainErr DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrorInsufficientFunds, domainErr.Code)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		t.Parallel()

		a := newTestAccount(t, "100")

		_, err := WithdrawCopy(a, decimal.Zero)
		require.Error(t, err)
	})
}

func TestCompareBalance(t *testing.T) {
	t.Parallel()

	rich := newTestAccount(t, "1000")
	poor := newTestAccount(t, "10")
	equal := newTestAccount(t, "10")

	assert.Equal(t, 1, CompareBalance(rich, poor))
	assert.Equal(t, -1, CompareBalance(poor, rich))
	assert.Equal(t, 0, CompareBalance(poor, equal))
	assert.Equal(t, 0, CompareBalance(rich, rich))
}

//go:build unit

package account

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
)

func newProviderAccount(t *testing.T, balance string, provider string) *Account {
	t.Helper()

	acct, err := New(decimal.RequireFromString(balance), provider+" Account", WithProvider(provider))
	require.NoError(t, err)

	return acct
}

func TestLink(t *testing.T) {
	t.Parallel()

	t.Run("links an external account under its provider", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "1000", "Chase")
		external := newProviderAccount(t, "500", "Bank of America")

		assert.True(t, primary.Links().Link(external))
		assert.Equal(t, []string{"Bank of America"}, primary.Links().Providers())
	})

	t.Run("nil account rejected", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "1000", "Chase")

		assert.False(t, primary.Links().Link(nil))
	})

	t.Run("self-link rejected", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "1000", "Chase")

		assert.False(t, primary.Links().Link(primary))
		assert.Empty(t, primary.Links().Providers())
	})

	t.Run("duplicate link rejected", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "1000", "Chase")
		external := newProviderAccount(t, "500", "Bank of America")

		require.True(t, primary.Links().Link(external))
		assert.False(t, primary.Links().Link(external))
		assert.Len(t, primary.Links().Providers(), 1)
	})
}

func TestUnlink(t *testing.T) {
	t.Parallel()

	t.Run("removes the reference only", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "1000", "Chase")
		external := newProviderAccount(t, "500", "Bank of America")
		require.True(t, primary.Links().Link(external))

		assert.True(t, primary.Links().Unlink("Bank of America"))
		assert.Empty(t, primary.Links().Providers())

		// The unlinked account itself is untouched.
		assert.True(t, external.Balance().Equal(decimal.NewFromInt(500)))
	})

	t.Run("unknown provider returns false", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "1000", "Chase")

		assert.False(t, primary.Links().Unlink("Monopoly Bank"))
	})
}

func TestConsolidatedBalance(t *testing.T) {
	t.Parallel()

	primary := newProviderAccount(t, "1000", "Chase")
	first := newProviderAccount(t, "500", "Bank of America")
	second := newProviderAccount(t, "250", "Wells Fargo")

	_, err := first.Deposit(decimal.NewFromInt(100), "Salary")
	require.NoError(t, err)

	require.True(t, primary.Links().Link(first))
	require.True(t, primary.Links().Link(second))

	totalBalance, totalSavings := primary.Links().ConsolidatedBalance()

	// first: balance 595, savings 5 after the deposit.
	assert.True(t, totalBalance.Equal(decimal.NewFromInt(1845)),
		"expected 1845, got %s", totalBalance)
	assert.True(t, totalSavings.Equal(decimal.NewFromInt(5)))
}

func TestFullHistory(t *testing.T) {
	t.Parallel()

	primary := newProviderAccount(t, "1000", "Chase")
	external := newProviderAccount(t, "500", "Bank of America")
	require.True(t, primary.Links().Link(external))

	_, err := primary.Deposit(decimal.NewFromInt(100), "Primary deposit")
	require.NoError(t, err)
	_, err = external.Withdraw(decimal.NewFromInt(50), "External withdrawal")
	require.NoError(t, err)

	history := primary.Links().FullHistory()
	require.Len(t, history, 2)
	assert.Equal(t, ledger.EntryTypeDeposit, history[0].Type)
	assert.Equal(t, ledger.EntryTypeWithdrawal, history[1].Type)
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	t.Run("moves money and records both legs", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "2000", "Chase")
		target := newProviderAccount(t, "500", "Bank of America")
		require.True(t, primary.Links().Link(target))

		result, err := primary.Links().Transfer("Bank of America", decimal.NewFromInt(300))
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, "Transferred $300.00 to Bank of America account", result.Message)
		assert.True(t, primary.Balance().Equal(decimal.NewFromInt(1700)))
		assert.True(t, target.Balance().Equal(decimal.NewFromInt(800)))

		sourceEntries := primary.Entries()
		require.Len(t, sourceEntries, 1)
		assert.Equal(t, ledger.EntryTypeTransfer, sourceEntries[0].Type)
		assert.Equal(t, "Transferred to Bank of America account", sourceEntries[0].Description)

		targetEntries := target.Entries()
		require.Len(t, targetEntries, 1)
		assert.Equal(t, ledger.EntryTypeTransfer, targetEntries[0].Type)
		assert.Equal(t, "Received from Chase account", targetEntries[0].Description)
	})

	t.Run("unknown provider fails", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "2000", "Chase")

		result, err := primary.Links().Transfer("Monopoly Bank", decimal.NewFromInt(300))
		require.NoError(t, err)

		assert.False(t, result.Success)
		assert.Equal(t, "No linked account from Monopoly Bank", result.Message)
		assert.True(t, primary.Balance().Equal(decimal.NewFromInt(2000)))
	})

	t.Run("transfers never draw on overdraft", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "100", "Chase")
		target := newProviderAccount(t, "0", "Bank of America")
		require.True(t, primary.Links().Link(target))

		result, err := primary.Links().Transfer("Bank of America", decimal.NewFromInt(150))
		require.NoError(t, err)

		assert.False(t, result.Success)
		assert.Equal(t, "Insufficient funds to transfer $150.00", result.Message)
		assert.True(t, primary.Balance().Equal(decimal.NewFromInt(100)))
		assert.True(t, target.Balance().IsZero())
		assert.Empty(t, primary.Entries())
		assert.Empty(t, target.Entries())
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		t.Parallel()

		primary := newProviderAccount(t, "2000", "Chase")

		_, err := primary.Links().Transfer("Bank of America", decimal.Zero)
		require.Error(t, err)

		var domainErr DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrorInvalidArgument, domainErr.Code)
	})
}

func TestOppositeDirectionTransfersDoNotDeadlock(t *testing.T) {
	t.Parallel()

	a := newProviderAccount(t, "10000", "Chase")
	b := newProviderAccount(t, "10000", "Bank of America")
	require.True(t, a.Links().Link(b))
	require.True(t, b.Links().Link(a))

	const rounds = 100

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := a.Links().Transfer("Bank of America", decimal.NewFromInt(10))
			assert.NoError(t, err)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := b.Links().Transfer("Chase", decimal.NewFromInt(10))
			assert.NoError(t, err)
		}
	}()

	wg.Wait()

	// Equal flow both ways leaves both balances where they started.
	assert.True(t, a.Balance().Equal(decimal.NewFromInt(10000)),
		"expected 10000, got %s", a.Balance())
	assert.True(t, b.Balance().Equal(decimal.NewFromInt(10000)),
		"expected 10000, got %s", b.Balance())
	assert.Len(t, a.Entries(), 2*rounds)
	assert.Len(t, b.Entries(), 2*rounds)
}

package account

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
	"github.com/ledgerline/lib-bankcore/bankcore/log"
)

// LinkRegistry maps provider names to linked accounts for one primary
// account. Linked accounts are independently owned; unlinking removes the
// reference only.
//
// Every registry operation runs under one exclusive section per registry
// instance, so a consolidation pass can never interleave with a concurrent
// link or unlink. Cross-account transfers additionally acquire both account
// mutexes in ascending id order; see transfer.
type LinkRegistry struct {
	mu sync.Mutex

	primary   *Account
	linked    []*Account
	providers map[string]string // provider name -> account id
}

func newLinkRegistry(primary *Account) *LinkRegistry {
	return &LinkRegistry{
		primary:   primary,
		providers: make(map[string]string),
	}
}

// Link registers an external account under its provider name. Linking an
// account to itself or linking the same account twice returns false with no
// mutation.
func (registry *LinkRegistry) Link(external *Account) bool {
	if external == nil {
		return false
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if external.ID() == registry.primary.ID() {
		registry.primary.logger.Log(context.Background(), log.LevelWarn, "attempted self-link",
			log.String("account_id", registry.primary.ID()))

		return false
	}

	for _, linked := range registry.linked {
		if linked.ID() == external.ID() {
			return false
		}
	}

	registry.linked = append(registry.linked, external)
	registry.providers[external.Provider()] = external.ID()

	registry.primary.logger.Log(context.Background(), log.LevelInfo, "account linked",
		log.String("primary_id", registry.primary.ID()),
		log.String("linked_id", external.ID()),
		log.String("provider", external.Provider()),
	)

	return true
}

// Unlink removes the link registered under the provider name. The linked
// account itself is untouched.
func (registry *LinkRegistry) Unlink(providerName string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	accountID, ok := registry.providers[providerName]
	if !ok {
		return false
	}

	for i, linked := range registry.linked {
		if linked.ID() == accountID {
			registry.linked = append(registry.linked[:i], registry.linked[i+1:]...)
			delete(registry.providers, providerName)

			registry.primary.logger.Log(context.Background(), log.LevelInfo, "account unlinked",
				log.String("primary_id", registry.primary.ID()),
				log.String("provider", providerName),
			)

			return true
		}
	}

	return false
}

// Providers returns the provider names currently linked.
func (registry *LinkRegistry) Providers() []string {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	return registry.providerNamesLocked()
}

func (registry *LinkRegistry) providerNamesLocked() []string {
	out := make([]string, 0, len(registry.providers))
	for name := range registry.providers {
		out = append(out, name)
	}

	return out
}

// ConsolidatedBalance sums balance and savings across the primary and all
// linked accounts. The registry stays locked for the whole pass; the linked
// accounts themselves are read concurrently since each read is a pure
// snapshot of the moment.
func (registry *LinkRegistry) ConsolidatedBalance() (decimal.Decimal, decimal.Decimal) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	totalBalance, totalSavings := registry.primary.balancesSnapshot()

	type balancePair struct {
		balance decimal.Decimal
		savings decimal.Decimal
	}

	results := make(chan balancePair, len(registry.linked))

	for _, linked := range registry.linked {
		go func(acct *Account) {
			balance, savings := acct.balancesSnapshot()
			results <- balancePair{balance: balance, savings: savings}
		}(linked)
	}

	for range registry.linked {
		pair := <-results
		totalBalance = totalBalance.Add(pair.balance)
		totalSavings = totalSavings.Add(pair.savings)
	}

	return totalBalance, totalSavings
}

// FullHistory returns the primary account's history followed by each linked
// account's history, as one copied slice.
func (registry *LinkRegistry) FullHistory() []ledger.Entry {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	out := registry.primary.Entries()
	for _, linked := range registry.linked {
		out = append(out, linked.Entries()...)
	}

	return out
}

// lockPair acquires both account mutexes in ascending account-id order, so
// opposite-direction transfers between the same pair cannot deadlock. The
// returned function releases both.
func lockPair(a, b *Account) func() {
	first, second := a, b
	if second.ID() < first.ID() {
		first, second = second, first
	}

	first.mu.Lock()
	second.mu.Lock()

	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// Transfer moves amount from the primary account to the linked account
// registered under toProvider. Transfers never draw on overdraft. Either
// both accounts change by exactly the amount and each gains one transfer
// entry, or neither changes.
func (registry *LinkRegistry) Transfer(toProvider string, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, NewDomainError(ErrorInvalidArgument, "amount", "transfer amount must be positive")
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	primary := registry.primary

	accountID, ok := registry.providers[toProvider]
	if !ok {
		message := fmt.Sprintf("No linked account from %s", toProvider)

		return newResult(false, message, amount, primary.Balance(), primary.now()), nil
	}

	var target *Account

	for _, linked := range registry.linked {
		if linked.ID() == accountID {
			target = linked
			break
		}
	}

	if target == nil {
		message := fmt.Sprintf("Could not find account from %s", toProvider)

		return newResult(false, message, amount, primary.Balance(), primary.now()), nil
	}

	unlock := lockPair(primary, target)
	defer unlock()

	if primary.balance.LessThan(amount) {
		message := fmt.Sprintf("Insufficient funds to transfer $%s", amount.StringFixed(2))

		return newResult(false, message, amount, primary.balance, primary.now()), nil
	}

	err := withDualGuard(primary, target, "transfer", func() error {
		sourceEntry, err := ledger.NewEntry(
			ledger.EntryTypeTransfer,
			amount,
			fmt.Sprintf("Transferred to %s account", toProvider),
			primary.provider,
			primary.now(),
		)
		if err != nil {
			return err
		}

		targetEntry, err := ledger.NewEntry(
			ledger.EntryTypeTransfer,
			amount,
			fmt.Sprintf("Received from %s account", primary.provider),
			toProvider,
			target.now(),
		)
		if err != nil {
			return err
		}

		primary.balance = primary.balance.Sub(amount)
		target.balance = target.balance.Add(amount)
		primary.appendEntry(sourceEntry)
		target.appendEntry(targetEntry)

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	primary.logger.Log(context.Background(), log.LevelInfo, "transfer completed",
		log.String("source_id", primary.id),
		log.String("target_id", target.id),
		log.Decimal("amount", amount),
	)

	message := fmt.Sprintf("Transferred $%s to %s account", amount.StringFixed(2), toProvider)

	return newResult(true, message, amount, primary.balance, primary.now()), nil
}

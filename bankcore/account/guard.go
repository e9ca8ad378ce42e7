package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/log"
)

// guardSnapshot captures the mutable money fields that commit or roll back
// together. Balance and savings are always restored as a pair.
type guardSnapshot struct {
	balance decimal.Decimal
	savings decimal.Decimal
}

func (acct *Account) takeSnapshot() guardSnapshot {
	return guardSnapshot{balance: acct.balance, savings: acct.savings}
}

func (acct *Account) restoreSnapshot(snap guardSnapshot) {
	acct.balance = snap.balance
	acct.savings = snap.savings
}

// withGuard runs fn inside a scoped transaction guard. If fn returns an
// error or panics, balance and savings are restored to their pre-call values
// atomically together and the failure propagates. Caller must hold acct.mu.
func (acct *Account) withGuard(op string, fn func() error) error {
	snap := acct.takeSnapshot()
	guardID := uuid.NewString()
	ctx := context.Background()

	acct.logger.Log(ctx, log.LevelDebug, "transaction started",
		log.String("guard_id", guardID),
		log.String("account_id", acct.id),
		log.String("operation", op),
	)

	defer func() {
		if recovered := recover(); recovered != nil {
			acct.restoreSnapshot(snap)
			acct.logger.Log(ctx, log.LevelError, "transaction panicked, rolled back",
				log.String("guard_id", guardID),
				log.String("account_id", acct.id),
				log.Any("panic", recovered),
			)
			panic(recovered)
		}
	}()

	if err := fn(); err != nil {
		acct.restoreSnapshot(snap)
		acct.logger.Log(ctx, log.LevelError, "transaction failed, rolled back",
			log.String("guard_id", guardID),
			log.String("account_id", acct.id),
			log.Err(err),
		)

		return err
	}

	acct.logger.Log(ctx, log.LevelDebug, "transaction committed",
		log.String("guard_id", guardID),
		log.String("account_id", acct.id),
	)

	return nil
}

// withDualGuard runs fn inside one combined guard spanning two accounts.
// On failure both accounts are restored to their pre-call snapshots, so no
// money vanishes or appears. Caller must hold both account mutexes.
func withDualGuard(source, target *Account, op string, fn func() error) error {
	sourceSnap := source.takeSnapshot()
	targetSnap := target.takeSnapshot()
	guardID := uuid.NewString()
	ctx := context.Background()

	restore := func() {
		source.restoreSnapshot(sourceSnap)
		target.restoreSnapshot(targetSnap)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			restore()
			source.logger.Log(ctx, log.LevelError, "dual transaction panicked, rolled back",
				log.String("guard_id", guardID),
				log.String("source_id", source.id),
				log.String("target_id", target.id),
				log.Any("panic", recovered),
			)
			panic(recovered)
		}
	}()

	if err := fn(); err != nil {
		restore()
		source.logger.Log(ctx, log.LevelError, "dual transaction failed, rolled back",
			log.String("guard_id", guardID),
			log.String("source_id", source.id),
			log.String("target_id", target.id),
			log.String("operation", op),
			log.Err(err),
		)

		return err
	}

	return nil
}

package account

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ledgerline/lib-bankcore/bankcore/log"
)

const (
	// unlockCode is the single shared verification code. Real authentication
	// is out of scope.
	unlockCode = "1234"
	// maxFailedAttempts locks the gate once the counter reaches it.
	maxFailedAttempts = 3
)

// SecurityEvent is one append-only record in the gate's event log.
type SecurityEvent struct {
	Timestamp time.Time `json:"timestamp"`
	AccountID string    `json:"account_id"`
	Message   string    `json:"message"`
}

// Gate is the per-account lock state machine guarding protected operations.
//
// Transitions:
//
//	UNLOCKED --Lock()--> LOCKED
//	UNLOCKED --3rd consecutive failed attempt--> LOCKED
//	LOCKED --Unlock(correct or absent code)--> UNLOCKED (counter reset)
//	LOCKED --Unlock(wrong code)--> LOCKED (counter incremented)
//
// Every transition and blocked attempt appends to the event log.
type Gate struct {
	mu sync.Mutex

	accountID   string
	accountName string

	locked         bool
	failedAttempts int
	events         []SecurityEvent

	logger log.Logger
	now    func() time.Time
}

func newGate(accountID, accountName string, logger log.Logger, now func() time.Time) *Gate {
	return &Gate{
		accountID:   accountID,
		accountName: accountName,
		logger:      logger,
		now:         now,
	}
}

// logEvent appends to the event log. Caller must hold gate.mu.
func (gate *Gate) logEvent(message string) {
	gate.events = append(gate.events, SecurityEvent{
		Timestamp: gate.now(),
		AccountID: gate.accountID,
		Message:   message,
	})
	gate.logger.Log(context.Background(), log.LevelWarn, "security event",
		log.String("account_id", gate.accountID),
		log.String("account_name", gate.accountName),
		log.String("message", message),
	)
}

// Locked reports whether the gate is locked.
func (gate *Gate) Locked() bool {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	return gate.locked
}

// Lock moves the gate to LOCKED. Always succeeds.
func (gate *Gate) Lock() {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	gate.locked = true
	gate.logEvent("Account locked")
}

// Unlock attempts to move the gate to UNLOCKED. The empty string counts as
// an absent code and unlocks. A successful unlock resets the failed-attempt
// counter; a wrong code increments it and re-locks at the threshold.
func (gate *Gate) Unlock(code string) bool {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	if code == "" || code == unlockCode {
		gate.locked = false
		gate.failedAttempts = 0
		gate.logEvent("Account unlocked successfully")

		return true
	}

	gate.failedAttempts++
	gate.logEvent(fmt.Sprintf("Failed unlock attempt (%d)", gate.failedAttempts))

	if gate.failedAttempts >= maxFailedAttempts {
		gate.locked = true
		gate.logEvent("Account locked due to too many failed attempts")
	}

	return false
}

// RecordFailedAttempt records a failed authentication attempt from outside
// the unlock path and locks the gate at the threshold.
func (gate *Gate) RecordFailedAttempt() {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	gate.failedAttempts++
	gate.logEvent(fmt.Sprintf("Failed authentication attempt (%d)", gate.failedAttempts))

	if gate.failedAttempts >= maxFailedAttempts {
		gate.locked = true
		gate.logEvent("Account locked due to too many failed attempts")
	}
}

// FailedAttempts returns the consecutive failed-attempt counter.
func (gate *Gate) FailedAttempts() int {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	return gate.failedAttempts
}

// CheckAllowed fails with a SecurityBlocked domain error whenever the gate
// is locked, regardless of the operation name. The blocked attempt is
// recorded in the event log.
func (gate *Gate) CheckAllowed(operation string) error {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	if gate.locked {
		gate.logEvent(fmt.Sprintf("Blocked access to %s while account locked", operation))

		return NewDomainError(ErrorSecurityBlocked, operation,
			fmt.Sprintf("account is locked, cannot perform %s", operation))
	}

	return nil
}

// Events returns a copy of the append-only event log.
func (gate *Gate) Events() []SecurityEvent {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	out := make([]SecurityEvent, len(gate.events))
	copy(out, gate.events)

	return out
}

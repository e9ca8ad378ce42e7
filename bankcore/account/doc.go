// Package account implements the transactional account engine: the Account
// aggregate with its balance invariants, the scoped transaction guard, the
// security gate state machine, the single-active-loan ledger, and the
// linked-account registry with atomic cross-account transfers.
//
// Every ledger-mutating operation either commits fully or leaves the account
// byte-for-byte as it was before the call. The guard snapshots balance and
// savings together and restores them together on failure, so no intermediate
// state is ever observable.
//
// Concurrency: each Account serializes its mutations behind one mutex. The
// link registry serializes link/unlink/transfer/consolidate behind its own
// mutex, and cross-account transfers acquire both participants' mutexes in
// ascending account-id order so opposite-direction transfers between the
// same pair cannot deadlock.
package account

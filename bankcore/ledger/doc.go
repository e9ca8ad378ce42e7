// Package ledger defines immutable transaction ledger entries.
//
// An Entry records one balance-affecting event. Entries are values: once
// created they are never mutated, only appended to an account's history.
package ledger

// Package directory provides an explicitly constructed registry of accounts
// keyed by account id. Its lifetime belongs to whoever owns account
// creation; there is no implicit process-wide instance.
package directory

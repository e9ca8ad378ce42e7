package directory

import (
	"sync"

	"github.com/ledgerline/lib-bankcore/bankcore/account"
)

// Directory is a registry of accounts keyed by account id. Safe for
// concurrent use.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{accounts: make(map[string]*account.Account)}
}

// Register adds an account. Registering a nil account or a duplicate id
// fails.
func (dir *Directory) Register(acct *account.Account) error {
	if acct == nil {
		return account.NewDomainError(account.ErrorInvalidArgument, "account", "account is required")
	}

	dir.mu.Lock()
	defer dir.mu.Unlock()

	if _, exists := dir.accounts[acct.ID()]; exists {
		return account.NewDomainError(account.ErrorInvalidArgument, "account_id", "account id already registered")
	}

	dir.accounts[acct.ID()] = acct

	return nil
}

// Get returns the account registered under id, if any.
func (dir *Directory) Get(id string) (*account.Account, bool) {
	dir.mu.RLock()
	defer dir.mu.RUnlock()

	acct, ok := dir.accounts[id]

	return acct, ok
}

// All returns a snapshot copy of the id -> account mapping.
func (dir *Directory) All() map[string]*account.Account {
	dir.mu.RLock()
	defer dir.mu.RUnlock()

	out := make(map[string]*account.Account, len(dir.accounts))
	for id, acct := range dir.accounts {
		out[id] = acct
	}

	return out
}

// Len returns the number of registered accounts.
func (dir *Directory) Len() int {
	dir.mu.RLock()
	defer dir.mu.RUnlock()

	return len(dir.accounts)
}

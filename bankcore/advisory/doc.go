// Package advisory holds the pluggable capabilities the account engine
// delegates to: currency rate lookup, fraud scoring, and spending
// categorization. None of them are ledger-affecting; a capability failure
// surfaces to the caller and never touches account state.
package advisory

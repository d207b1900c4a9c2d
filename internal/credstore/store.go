// Package credstore persists the session credential across process
// restarts. The contract is a single string value with get/set/remove
// semantics; nothing else about the session survives a restart.
package credstore

// TokenKey is the one key the store is scoped to.
const TokenKey = "fitlog_token"

// Store holds at most one credential string.
type Store interface {
	// Get returns the stored credential, or "" when none is stored.
	Get() (string, error)
	// Set stores the credential, replacing any previous value.
	Set(token string) error
	// Remove deletes the stored credential. Removing an absent
	// credential is not an error.
	Remove() error
}

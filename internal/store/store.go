// Package store provides the persistent string-keyed store backing the
// listing cache, watch progress, and watchlist. The only guarantee the
// rest of the code relies on is single-key atomicity: a Set either
// replaces the previous value completely or leaves it untouched.
package store

// Store is a simple string-keyed get/set/delete collaborator.
type Store interface {
	// Get returns the value for key, or ok=false if absent.
	Get(key string) (value string, ok bool, err error)

	// Set writes value under key, replacing any previous value atomically.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all keys with the given prefix.
	Keys(prefix string) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

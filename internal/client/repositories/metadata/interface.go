// Package metadata implements the durable key-value cache the client keeps
// across restarts: the bearer token and a cached copy of the user profile.
package metadata

import "context"

// Repository is a small persistent key-value store.
type Repository interface {
	// Get returns the stored value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all keys.
	Clear(ctx context.Context) error
}

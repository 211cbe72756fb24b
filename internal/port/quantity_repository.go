package port

import "context"

// QuantityRepository is the durable string-keyed medium behind the quantity store.
type QuantityRepository interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value before returning
	Set(ctx context.Context, key, value string) error
}

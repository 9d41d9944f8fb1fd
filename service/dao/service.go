// Package dao defines the minimal persistence contract used for request,
// decision and snapshot records.
package dao

import (
	"context"
)

// Service is a generic store of entities of type T keyed by K.
type Service[K comparable, T any] interface {
	// Save stores or overwrites an entity.
	Save(ctx context.Context, t *T) error

	// Load returns the entity with the given key, or nil when absent.
	Load(ctx context.Context, id K) (*T, error)

	// Delete removes the entity with the given key.
	Delete(ctx context.Context, id K) error

	// List returns all stored entities.
	List(ctx context.Context) ([]*T, error)
}

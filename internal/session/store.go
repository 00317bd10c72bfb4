// Package session persists filter state per browser session.
package session

import (
	"context"
	"errors"

	"jobverse/internal/filter"
)

// ErrSessionNotFound is returned for an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

// MutateFunc derives the next state from the current one. Returning an error
// aborts the update and leaves the stored state unchanged.
type MutateFunc func(filter.State) (filter.State, error)

// Store is the session persistence contract. Update applies fn atomically
// with respect to other updates of the same id.
type Store interface {
	Create(ctx context.Context, id string, st filter.State) error
	Get(ctx context.Context, id string) (filter.State, error)
	Update(ctx context.Context, id string, fn MutateFunc) (filter.State, error)
	Delete(ctx context.Context, id string) error
}

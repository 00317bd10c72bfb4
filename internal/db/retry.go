// Package db provides connection helpers for the service's backing systems.
// Every helper verifies the connection before returning it and retries the
// initial dial with exponential backoff, since dependencies started by the
// same compose file are often a few seconds behind.
package db

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	dialInitialInterval = 500 * time.Millisecond
	dialMaxInterval     = 5 * time.Second
	dialMaxElapsed      = 30 * time.Second
	dialMaxTries        = 6
)

func withRetry[T any](ctx context.Context, op backoff.Operation[T]) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = dialInitialInterval
	bo.MaxInterval = dialMaxInterval

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(dialMaxTries),
		backoff.WithMaxElapsedTime(dialMaxElapsed),
	)
}

// Package retry backs the store-facing paths that must ride out transient
// Redis failures: the boot ping and the deletion sweep.
package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// DoWithRetry executes fn up to attempts times, doubling the delay between
// attempts and adding jitter so concurrent retriers spread out. It stops
// early when the context is canceled and returns the last error otherwise.
func DoWithRetry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	delay := baseDelay

	for i := 0; i < attempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err = fn(); err == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(withJitter(delay)):
		}
		delay *= 2
	}
	return err
}

// withJitter stretches d by up to half of itself.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + rand.N(d/2+1)
}

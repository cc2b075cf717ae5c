// Package retry provides a small fixed-interval retry helper on top of
// cenkalti/backoff. It is used for sandbox marker-file visibility checks and
// post-install artifact verification, which both retry a bounded number of
// times with a constant delay.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Fixed runs op up to attempts times, sleeping interval between attempts.
// It returns nil as soon as op succeeds, the last error once the attempts are
// exhausted, or the context error if ctx is cancelled while waiting.
func Fixed(ctx context.Context, attempts int, interval time.Duration, op func() error) error {
	if attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", attempts)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1)),
		ctx,
	)
	return backoff.Retry(op, policy)
}

// Permanent marks err as non-retryable; Fixed returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

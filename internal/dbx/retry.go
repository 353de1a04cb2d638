package dbx

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// DefaultReadRetries is how many extra attempts RetryRead makes.
const DefaultReadRetries = 2

var readBackoffBase = 25 * time.Millisecond

// RetryRead runs fn and re-runs it up to retries more times while it fails
// with a transient driver error. Only use it for statements that are safe
// to repeat; writes must never go through here.
func RetryRead(ctx context.Context, retries uint64, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(retries, retry.NewExponential(readBackoffBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// IsTransient reports whether err is a connection-level failure after which
// the same read can be attempted again.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

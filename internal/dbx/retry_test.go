package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(t *testing.T) {
	t.Helper()
	orig := readBackoffBase
	readBackoffBase = time.Millisecond
	t.Cleanup(func() { readBackoffBase = orig })
}

func TestRetryRead_RetriesTransientUpToLimit(t *testing.T) {
	fastBackoff(t)

	calls := 0
	err := RetryRead(context.Background(), 2, func(ctx context.Context) error {
		calls++
		return fmt.Errorf("query: %w", driver.ErrBadConn)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Equal(t, 3, calls, "one attempt plus two retries")
}

func TestRetryRead_SucceedsAfterTransient(t *testing.T) {
	fastBackoff(t)

	calls := 0
	err := RetryRead(context.Background(), 2, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return driver.ErrBadConn
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryRead_DoesNotRetryPermanent(t *testing.T) {
	fastBackoff(t)

	calls := 0
	err := RetryRead(context.Background(), 2, func(ctx context.Context) error {
		calls++
		return sql.ErrNoRows
	})

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(driver.ErrBadConn))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", driver.ErrBadConn)))
	assert.False(t, IsTransient(errors.New("syntax error")))
	assert.False(t, IsTransient(context.Canceled))
}

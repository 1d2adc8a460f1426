package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/web-larek/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWithResult(t *testing.T) {
	cfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls int
		v, err := retry.DoWithResult(t.Context(), cfg,
			func() (int, error) {
				calls++
				if calls < 3 {
					return 0, errors.New("transient")
				}
				return 42, nil
			},
		)

		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustedReturnsLastError", func(t *testing.T) {
		sentinel := errors.New("down")
		var calls int
		_, err := retry.DoWithResult(t.Context(), cfg,
			func() (int, error) {
				calls++
				return 0, sentinel
			},
		)

		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 3, calls)
	})

	t.Run("ShouldRetryStops", func(t *testing.T) {
		fatal := errors.New("fatal")
		cfg := cfg
		cfg.ShouldRetry = func(err error) bool {
			return !errors.Is(err, fatal)
		}

		var calls int
		_, err := retry.DoWithResult(t.Context(), cfg,
			func() (int, error) {
				calls++
				return 0, fatal
			},
		)

		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		var calls int
		_, err := retry.DoWithResult(ctx, cfg,
			func() (int, error) {
				calls++
				return 0, nil
			},
		)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, calls)
	})
}

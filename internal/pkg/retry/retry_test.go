package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	pkghttp "github.com/futig/wrapgen/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestDo_DefaultIsSingleAttempt(t *testing.T) {
	calls := 0
	err := DefaultRetryConfig().Do(context.Background(), func() error {
		calls++
		return &pkghttp.NetworkError{Err: errors.New("reset")}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsIsNotInfinite(t *testing.T) {
	calls := 0
	cfg := &RetryConfig{Attempts: 0, Delay: time.Millisecond, MaxDelay: time.Millisecond}
	err := cfg.Do(context.Background(), func() error {
		calls++
		return &pkghttp.NetworkError{Err: errors.New("reset")}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesOnlyNetworkErrors(t *testing.T) {
	cfg := &RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: time.Millisecond}

	calls := 0
	err := cfg.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &pkghttp.NetworkError{Err: errors.New("reset")}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	httpErr := &pkghttp.HTTPError{StatusCode: 500}
	err = cfg.Do(context.Background(), func() error {
		calls++
		return httpErr
	})
	assert.ErrorIs(t, err, httpErr)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pkghttp.NetworkError{Err: errors.New("x")}))
	assert.False(t, IsRetryable(&pkghttp.HTTPError{StatusCode: 503}))
	assert.False(t, IsRetryable(pkghttp.ErrMissingAPIKey))
}

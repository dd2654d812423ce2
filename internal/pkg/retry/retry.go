package retry

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	pkghttp "github.com/futig/wrapgen/pkg/http"
)

const (
	defaultAttempts = 1
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 2 * time.Second
)

// RetryConfig controls retries of connection-level failures. One attempt means no retry.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"1"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions(ctx context.Context) []retry.Option {
	// retry-go treats zero attempts as "until success"
	attempts := rc.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsRetryable),
	}
}

// Do runs fn under the config. Only errors that never reached the provider are retried.
func (rc *RetryConfig) Do(ctx context.Context, fn func() error) error {
	return retry.Do(fn, rc.ToRetryOptions(ctx)...)
}

// IsRetryable reports whether err is a network failure without a provider response
func IsRetryable(err error) bool {
	var netErr *pkghttp.NetworkError
	return errors.As(err, &netErr)
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

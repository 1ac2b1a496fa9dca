package query

import "time"

const (
	defaultRetryDelay    = time.Second
	defaultRetryMaxDelay = 30 * time.Second
	defaultIdleRetention = 5 * time.Minute
)

// RetryPolicy decides whether a failed attempt is retried. failures is the
// number of failures before this one, so the first failure sees 0.
type RetryPolicy func(failures int, err error) bool

// NoRetry never retries.
func NoRetry(int, error) bool { return false }

// RetryUpTo retries any error at most n times.
func RetryUpTo(n int) RetryPolicy {
	return func(failures int, _ error) bool { return failures < n }
}

// Options configures one query kind.
type Options struct {
	// StaleTime is how long a successful result is reused without refetching.
	StaleTime time.Duration
	// IdleRetention is how long an entry with no observers is kept.
	IdleRetention time.Duration
	// RefetchOnFocus refetches observed stale entries on Cache.Focus.
	RefetchOnFocus bool
	// Retry is consulted after each failed attempt. Nil means NoRetry.
	Retry RetryPolicy
	// RetryDelay is the first backoff interval; it doubles up to RetryMaxDelay.
	RetryDelay    time.Duration
	RetryMaxDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.IdleRetention <= 0 {
		o.IdleRetention = defaultIdleRetention
	}
	if o.Retry == nil {
		o.Retry = NoRetry
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	if o.RetryMaxDelay < o.RetryDelay {
		o.RetryMaxDelay = defaultRetryMaxDelay
		if o.RetryMaxDelay < o.RetryDelay {
			o.RetryMaxDelay = o.RetryDelay
		}
	}
	return o
}

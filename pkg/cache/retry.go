package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// RetryPolicy bounds how often a Redis command is attempted. go-redis runs
// the retries itself, backing off exponentially from BaseDelay up to MaxDelay
// between attempts on timeouts and dropped connections.
type RetryPolicy struct {
	// Attempts counts the first try. One disables retries.
	Attempts int
	// BaseDelay and MaxDelay bound the backoff. Zero keeps go-redis' default.
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy tries three times, backing off between 100ms and 1s.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

// apply copies the policy onto opts. go-redis reads MaxRetries 0 as its own
// default, so a single attempt maps to -1.
func (p RetryPolicy) apply(opts *redis.Options) {
	if p.Attempts <= 0 {
		p = DefaultRetryPolicy
	}
	opts.MaxRetries = p.Attempts - 1
	if opts.MaxRetries == 0 {
		opts.MaxRetries = -1
	}
	opts.MinRetryBackoff = p.BaseDelay
	opts.MaxRetryBackoff = p.MaxDelay
}

package feed

import "time"

// RetryPolicy is an explicit bounded-retry policy for rebuilding the
// subscription: at most MaxAttempts consecutive failures, with a fixed
// Delay between attempts. It replaces implicit timer-based retry control
// flow so the session logic is testable independently of wall clocks.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the subscription contract: 3 attempts with a
// fixed 5-second backoff, then terminal until a manual reset.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 5 * time.Second}
}

// Exhausted reports whether the given number of consecutive failures has
// used up the policy.
func (p RetryPolicy) Exhausted(failures int) bool {
	return failures >= p.MaxAttempts
}

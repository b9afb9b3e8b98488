package fetch

import (
	"errors"
	"fmt"
)

// Common errors returned by fetch tiers.
var (
	// ErrNotFound indicates the endpoint answered but has no record for
	// the reference.
	ErrNotFound = errors.New("reference not found")

	// ErrRateLimited indicates the endpoint refused the request with 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrBlocked indicates the endpoint answered with an anti-bot or
	// access-denied page instead of content.
	ErrBlocked = errors.New("request blocked by endpoint")

	// ErrNetworkError indicates a connectivity or timeout failure.
	// Timeouts are not distinguished from other network faults; both mean
	// the tier produced nothing.
	ErrNetworkError = errors.New("network error")

	// ErrInvalidResponse indicates the endpoint answered with something
	// unparseable.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrTierUnavailable indicates the tier does not apply to this
	// reference or is disabled by configuration.
	ErrTierUnavailable = errors.New("tier unavailable")
)

// TierError wraps a tier failure with the tier that produced it. Cascade
// callers see these only in logs and diagnostics; tier failures never
// propagate out of Resolve.
type TierError struct {
	Tier string
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("tier %s: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error {
	return e.Err
}

package ai

import "errors"

// ErrRateLimited marks an error caused by backend rate limiting. Callers may
// retry such calls with backoff; any other model error is permanent.
var ErrRateLimited = errors.New("rate limited by model backend")

// IsRateLimit reports whether err was caused by backend rate limiting.
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

package remote

import "golang.org/x/time/rate"

// newLimiter returns a token bucket allowing rps requests per second with
// a burst of one. rps <= 0 means unlimited.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound provider requests
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing the given number of requests per
// minute with the specified burst capacity.
func NewLimiter(requestsPerMinute int, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

// Wait blocks until the request can proceed
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow returns true if the request can proceed immediately
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

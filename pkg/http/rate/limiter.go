package rate

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates outbound requests.
type Limiter interface {
	Wait(context.Context) error
}

// New returns a limiter allowing n requests per second with burst b.
// Basis advertises no rate limit headers, so the cap is a fixed
// courtesy budget rather than something negotiated with the server.
func New(n float64, b int) Limiter {
	return rate.NewLimiter(rate.Limit(n), b)
}

// Unlimited returns a limiter that never waits.
func Unlimited() Limiter {
	return unlimited{}
}

type unlimited struct{}

func (unlimited) Wait(context.Context) error { return nil }

package limiter

import (
	"context"
	"time"
)

// Result describes the outcome of a single quota check.
type Result struct {
	// Allowed is true when the request fit inside the quota and was counted.
	Allowed bool
	// Remaining is the quota left in the current window after this check.
	Remaining int
	// Reset is when the oldest counted request leaves the window, i.e. the
	// earliest moment a denied client can retry.
	Reset time.Time
}

// Limiter answers whether a client identified by key may proceed. The
// counter store owns atomicity; callers treat this as one opaque remote
// call that may block on network I/O.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Package fakelatency gives the in-memory repos their artificial network
// delay, so dev-mode UI behaves like it would against the real backend.
package fakelatency

import (
	"context"
	"time"
)

// Wait blocks for d, honouring context cancellation.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

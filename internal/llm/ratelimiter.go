package llm

import (
	"context"
	"sync"
	"time"
)

// Throttled spaces calls to the wrapped provider evenly so that at most rpm
// calls start per minute. Callers queue by reserving the next free slot.
type Throttled struct {
	Provider
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// Throttle wraps p. A non-positive rpm disables throttling.
func Throttle(p Provider, rpm int) Provider {
	if rpm <= 0 {
		return p
	}
	return &Throttled{Provider: p, interval: time.Minute / time.Duration(rpm)}
}

func (t *Throttled) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	t.mu.Lock()
	now := time.Now()
	start := t.next
	if start.Before(now) {
		start = now
	}
	t.next = start.Add(t.interval)
	t.mu.Unlock()

	if wait := time.Until(start); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return t.Provider.Complete(ctx, req)
}

package gameserver

import (
	"context"
	"sync"
	"time"
)

// TickManager runs named periodic callbacks at a fixed interval. The game
// loop registers the combat round here; callbacks are invoked sequentially
// within the manager's goroutine.
//
// Invariant: all callbacks are invoked at most once per tick interval.
type TickManager struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]func()
}

// NewTickManager returns a manager that fires ticks every interval.
//
// Precondition: interval must be > 0.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		panic("gameserver.NewTickManager: interval must be > 0")
	}
	return &TickManager{
		interval: interval,
		ticks:    make(map[string]func()),
	}
}

// RegisterTick registers a callback under name. Replaces any existing
// callback with that name.
func (t *TickManager) RegisterTick(name string, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks[name] = fn
}

// Unregister removes the tick callback for name.
func (t *TickManager) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ticks, name)
}

// Start begins the tick loop. Runs until ctx is cancelled.
//
// Postcondition: all registered tick callbacks are invoked once per interval.
func (t *TickManager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.mu.Lock()
				callbacks := make(map[string]func(), len(t.ticks))
				for k, v := range t.ticks {
					callbacks[k] = v
				}
				t.mu.Unlock()
				for _, fn := range callbacks {
					fn()
				}
			}
		}
	}()
}

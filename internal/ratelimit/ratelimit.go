package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config holds the limit per fixed window
type Config struct {
	// Max requests per window. Zero or negative disables limiting.
	Max int
	// Window duration
	Window time.Duration
}

// Result describes the state of a key after Take
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

type window struct {
	count      int
	windowEnd  time.Time
	lastAccess time.Time
}

// Limiter is an in-memory fixed window limiter keyed by string.
// It bounds both per-user API traffic and the aggregate detection rate.
type Limiter struct {
	config  Config
	windows map[string]*window
	mu      sync.Mutex
	now     func() time.Time
}

// New creates a limiter. A zero Window defaults to one minute.
func New(config Config) *Limiter {
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	return &Limiter{
		config:  config,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// PerMinute creates a limiter allowing max events per minute
func PerMinute(max int) *Limiter {
	return New(Config{Max: max, Window: time.Minute})
}

// Enabled reports whether the limiter enforces anything
func (l *Limiter) Enabled() bool {
	return l != nil && l.config.Max > 0
}

// Allow consumes one slot for key and reports whether it was within the limit
func (l *Limiter) Allow(key string) bool {
	return l.Take(key).Allowed
}

// Take consumes one slot for key
func (l *Limiter) Take(key string) Result {
	if !l.Enabled() {
		return Result{Allowed: true}
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || !now.Before(w.windowEnd) {
		w = &window{windowEnd: now.Add(l.config.Window)}
		l.windows[key] = w
	}

	w.count++
	w.lastAccess = now

	remaining := l.config.Max - w.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   w.count <= l.config.Max,
		Limit:     l.config.Max,
		Remaining: remaining,
		Reset:     w.windowEnd,
	}
}

// Count returns the number of events recorded for key in the current window
func (l *Limiter) Count(key string) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !l.now().Before(w.windowEnd) {
		return 0
	}
	return w.count
}

// Reset clears the window for key
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// CleanupExpired removes entries not accessed in two windows and returns how many were removed
func (l *Limiter) CleanupExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, w := range l.windows {
		if now.Sub(w.lastAccess) > 2*l.config.Window {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Run calls CleanupExpired every interval until ctx is done
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.CleanupExpired()
		}
	}
}

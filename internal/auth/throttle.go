package auth

import (
	"context"
	"sync"
	"time"

	"github.com/mrlokans/catalog/internal/config"
)

const (
	defaultMaxLoginAttempts = 5
	defaultRateLimitWindow  = 15 * time.Minute
	defaultLockoutDuration  = 30 * time.Minute
	throttlePruneInterval   = 5 * time.Minute
)

// loginKey identifies whose failures are counted together.
type loginKey struct {
	ip    string
	email string
}

type failureWindow struct {
	failures    int
	openedAt    time.Time
	lockedUntil time.Time
}

// loginThrottle locks an (IP, email) pair out after limit failed logins
// inside window. Successful logins clear the pair.
type loginThrottle struct {
	limit   int
	window  time.Duration
	lockout time.Duration
	now     func() time.Time

	mu      sync.Mutex
	windows map[loginKey]*failureWindow

	cancel context.CancelFunc
}

func newLoginThrottle(cfg config.Auth) *loginThrottle {
	t := &loginThrottle{
		limit:   cfg.MaxLoginAttempts,
		window:  cfg.RateLimitWindow,
		lockout: cfg.LockoutDuration,
		now:     time.Now,
		windows: make(map[loginKey]*failureWindow),
	}
	if t.limit <= 0 {
		t.limit = defaultMaxLoginAttempts
	}
	if t.window <= 0 {
		t.window = defaultRateLimitWindow
	}
	if t.lockout <= 0 {
		t.lockout = defaultLockoutDuration
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.pruneEvery(ctx, throttlePruneInterval)

	return t
}

// check returns a *LockoutError while key is locked out.
func (t *loginThrottle) check(key loginKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.windows[key]
	if !ok {
		return nil
	}
	if now := t.now(); now.Before(w.lockedUntil) {
		return &LockoutError{RetryAfter: w.lockedUntil.Sub(now)}
	}
	return nil
}

// fail counts one failure and reports whether it started a lockout.
func (t *loginThrottle) fail(key loginKey) bool {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.windows[key]
	if !ok || t.expired(w, now) {
		w = &failureWindow{openedAt: now}
		t.windows[key] = w
	}

	w.failures++
	if w.failures < t.limit {
		return false
	}
	w.lockedUntil = now.Add(t.lockout)
	return true
}

func (t *loginThrottle) reset(key loginKey) {
	t.mu.Lock()
	delete(t.windows, key)
	t.mu.Unlock()
}

// expired reports whether w neither counts towards a lockout nor holds one.
func (t *loginThrottle) expired(w *failureWindow, now time.Time) bool {
	return now.Sub(w.openedAt) > t.window && !now.Before(w.lockedUntil)
}

func (t *loginThrottle) prune() {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for key, w := range t.windows {
		if t.expired(w, now) {
			delete(t.windows, key)
		}
	}
}

func (t *loginThrottle) pruneEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.prune()
		case <-ctx.Done():
			return
		}
	}
}

// close stops the pruning goroutine. It is safe to call more than once.
func (t *loginThrottle) close() {
	t.cancel()
}

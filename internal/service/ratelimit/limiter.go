package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window rate gate keyed by caller identity. Three
// independently configured instances guard inbound API traffic, outbound
// per-provider traffic, and push-channel messages. Denial is advisory: there
// is no banning and no backoff state beyond the rolling window itself.
type Limiter struct {
	window time.Duration
	max    int
	now    func() time.Time

	mu sync.Mutex
	m  map[string][]time.Time

	stop chan struct{}
	once sync.Once
}

// New creates a limiter allowing max calls per key within a sliding window.
// A background sweep drops idle keys every few window-lengths to bound memory.
func New(window time.Duration, max int) *Limiter {
	l := &Limiter{
		window: window,
		max:    max,
		now:    time.Now,
		m:      make(map[string][]time.Time),
		stop:   make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow reports whether one more call for key fits in the current window,
// recording the call when it does.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.retain(key, now)
	if len(kept) >= l.max {
		l.m[key] = kept
		return false
	}
	l.m[key] = append(kept, now)
	return true
}

// Remaining returns how many calls the key has left in the current window.
func (l *Limiter) Remaining(key string) int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.retain(key, now)
	l.m[key] = kept
	if n := l.max - len(kept); n > 0 {
		return n
	}
	return 0
}

// retain keeps only timestamps newer than now-window. Caller holds the lock.
func (l *Limiter) retain(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	stamps := l.m[key]
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(3 * l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := l.now().Add(-l.window)
			l.mu.Lock()
			for key, stamps := range l.m {
				idle := true
				for _, t := range stamps {
					if t.After(cutoff) {
						idle = false
						break
					}
				}
				if idle {
					delete(l.m, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Close stops the background sweep.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// Package ratelimit implements tiered per-identity attempt limiting. The
// bundled implementation keeps counters in process memory, which is only
// sound for a single-instance deployment; behind the Limiter interface a
// shared store (e.g. Redis) can be substituted when running multiple
// replicas, and restarts reset all counters.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects an attempt for a key. A rejection reports when
// the tightest exhausted window resets.
type Limiter interface {
	Allow(key string) (allowed bool, resetAt time.Time)
}

// Tier is one sliding window: at most Max attempts per Window.
type Tier struct {
	Max    int
	Window time.Duration
}

// Config holds the three concurrent windows. Every attempt counts against
// all of them; any exhausted window rejects. A tier with Max == 0 is
// inactive.
type Config struct {
	Minute Tier
	Hour   Tier
	Day    Tier
}

func DefaultConfig() Config {
	return Config{
		Minute: Tier{Max: 3, Window: time.Minute},
		Hour:   Tier{Max: 10, Window: time.Hour},
		Day:    Tier{Max: 50, Window: 24 * time.Hour},
	}
}

type window struct {
	count   int
	resetAt time.Time
}

type entry struct {
	minute window
	hour   window
	day    window
}

type TieredLimiter struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*entry

	now func() time.Time
}

func NewTieredLimiter(cfg Config) *TieredLimiter {
	return &TieredLimiter{
		cfg:     cfg,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (l *TieredLimiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{
			minute: window{resetAt: now.Add(l.cfg.Minute.Window)},
			hour:   window{resetAt: now.Add(l.cfg.Hour.Window)},
			day:    window{resetAt: now.Add(l.cfg.Day.Window)},
		}
		l.entries[key] = e
	}

	// Expired windows restart independently.
	if now.After(e.minute.resetAt) {
		e.minute = window{resetAt: now.Add(l.cfg.Minute.Window)}
	}
	if now.After(e.hour.resetAt) {
		e.hour = window{resetAt: now.Add(l.cfg.Hour.Window)}
	}
	if now.After(e.day.resetAt) {
		e.day = window{resetAt: now.Add(l.cfg.Day.Window)}
	}

	if l.cfg.Minute.Max > 0 && e.minute.count >= l.cfg.Minute.Max {
		return false, e.minute.resetAt
	}
	if l.cfg.Hour.Max > 0 && e.hour.count >= l.cfg.Hour.Max {
		return false, e.hour.resetAt
	}
	if l.cfg.Day.Max > 0 && e.day.count >= l.cfg.Day.Max {
		return false, e.day.resetAt
	}

	e.minute.count++
	e.hour.count++
	e.day.count++
	return true, time.Time{}
}

// Sweep drops entries whose longest window has lapsed. Correctness does not
// depend on it; it only bounds memory growth.
func (l *TieredLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, e := range l.entries {
		if now.After(e.day.resetAt) {
			delete(l.entries, key)
		}
	}
}

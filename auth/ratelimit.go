package auth

import (
	"sync"
	"time"
)

// Login rate limiting: 5 failures within a 15 minute window locks the
// client out for 30 minutes. A successful login clears the record.
const (
	RateLimitWindow   = 15 * time.Minute
	RateLimitAttempts = 5
	RateLimitLockout  = 30 * time.Minute
)

type attemptRecord struct {
	attempts    int
	windowStart time.Time
	lockUntil   time.Time
}

// LoginLimiter tracks failed login attempts per client IP.
type LoginLimiter struct {
	mu      sync.Mutex
	records map[string]*attemptRecord

	window      time.Duration
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		records:     make(map[string]*attemptRecord),
		window:      RateLimitWindow,
		maxAttempts: RateLimitAttempts,
		lockout:     RateLimitLockout,
		now:         time.Now,
	}
}

// Check reports whether the client is currently locked out, and how many
// attempts remain. While locked, even a correct password must fail.
func (l *LoginLimiter) Check(ip string) (limited bool, remaining int, lockUntil time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[ip]
	if !ok {
		return false, l.maxAttempts, time.Time{}
	}
	if rec.lockUntil.After(now) {
		return true, 0, rec.lockUntil
	}
	if now.Sub(rec.windowStart) > l.window {
		rec.attempts = 0
		rec.windowStart = now
	}
	return false, l.maxAttempts - rec.attempts, time.Time{}
}

// RecordFailure counts a failed attempt and starts the lockout once the
// limit is reached.
func (l *LoginLimiter) RecordFailure(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[ip]
	if !ok || now.Sub(rec.windowStart) > l.window {
		rec = &attemptRecord{windowStart: now}
		l.records[ip] = rec
	}
	rec.attempts++
	if rec.attempts >= l.maxAttempts {
		rec.lockUntil = now.Add(l.lockout)
	}
}

// Reset clears the failure record after a successful login.
func (l *LoginLimiter) Reset(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, ip)
}

// Sweep drops records that are neither locked nor inside the window.
func (l *LoginLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, rec := range l.records {
		if rec.lockUntil.Before(now) && now.Sub(rec.windowStart) > l.window {
			delete(l.records, ip)
		}
	}
}

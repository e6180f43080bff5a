// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginProtection combines per-IP rate limiting with per-account lockout
// after repeated failures.
type LoginProtection struct {
	mu         sync.Mutex
	ipLimiters map[string]*rate.Limiter
	attempts   map[string]*loginAttempt

	ipRate  rate.Limit
	ipBurst int

	maxFailedAttempts int
	lockoutDuration   time.Duration
	attemptWindow     time.Duration
}

// loginAttempt tracks failed login attempts for an account.
type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// NewLoginProtection creates a login protection instance with
// one request per two seconds per IP, burst of 5, and a 5-failure
// lockout of 15 minutes that doubles with each repeat lockout.
func NewLoginProtection() *LoginProtection {
	lp := &LoginProtection{
		ipLimiters:        make(map[string]*rate.Limiter),
		attempts:          make(map[string]*loginAttempt),
		ipRate:            rate.Limit(0.5),
		ipBurst:           5,
		maxFailedAttempts: 5,
		lockoutDuration:   15 * time.Minute,
		attemptWindow:     15 * time.Minute,
	}

	go lp.cleanupLoop()

	return lp
}

// CheckIPRateLimit reports whether a login request from ip is allowed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	lp.mu.Lock()
	limiter, ok := lp.ipLimiters[ip]
	if !ok {
		limiter = rate.NewLimiter(lp.ipRate, lp.ipBurst)
		lp.ipLimiters[ip] = limiter
	}
	lp.mu.Unlock()

	return limiter.Allow()
}

// IsAccountLocked reports whether an account is locked and for how much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	attempt, exists := lp.attempts[email]
	lp.mu.Unlock()

	if !exists {
		return false, 0
	}
	if time.Now().Before(attempt.lockedUntil) {
		return true, time.Until(attempt.lockedUntil)
	}
	return false, 0
}

// RecordFailedAttempt records a failed login. Returns the lockout state
// and duration if this failure locked the account.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	attempt, exists := lp.attempts[email]
	if !exists || now.Sub(attempt.firstFailed) > lp.attemptWindow {
		lp.attempts[email] = &loginAttempt{count: 1, firstFailed: now}
		return false, 0
	}

	attempt.count++
	if attempt.count < lp.maxFailedAttempts {
		return false, 0
	}

	// Exponential backoff on repeat lockouts, capped at 24 hours
	lockDuration := lp.lockoutDuration
	for i := 0; i < attempt.lockouts; i++ {
		lockDuration *= 2
		if lockDuration > 24*time.Hour {
			lockDuration = 24 * time.Hour
			break
		}
	}

	attempt.lockedUntil = now.Add(lockDuration)
	attempt.lockouts++
	attempt.count = 0

	slog.Warn("account locked due to failed attempts",
		"email", email,
		"lockouts", attempt.lockouts,
		"duration", lockDuration,
	)

	return true, lockDuration
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	delete(lp.attempts, email)
	lp.mu.Unlock()
}

// Middleware rate-limits login POSTs per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, "Too many login attempts, try again shortly", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (lp *LoginProtection) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		lp.mu.Lock()
		if len(lp.ipLimiters) > 10000 {
			lp.ipLimiters = make(map[string]*rate.Limiter)
		}
		for email, attempt := range lp.attempts {
			if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > lp.attemptWindow {
				delete(lp.attempts, email)
			}
		}
		lp.mu.Unlock()
	}
}

// ClientIP extracts the client IP, preferring reverse proxy headers.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

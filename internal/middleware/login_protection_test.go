package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRecordFailedAttemptLocksAccount(t *testing.T) {
	lp := NewLoginProtection()

	for i := 0; i < 4; i++ {
		locked, _ := lp.RecordFailedAttempt("user@example.com")
		if locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}

	locked, duration := lp.RecordFailedAttempt("user@example.com")
	if !locked {
		t.Fatal("fifth failure should lock the account")
	}
	if duration != 15*time.Minute {
		t.Errorf("lock duration = %v, want 15m", duration)
	}

	isLocked, remaining := lp.IsAccountLocked("user@example.com")
	if !isLocked {
		t.Error("account should report locked")
	}
	if remaining <= 0 {
		t.Errorf("remaining = %v, want > 0", remaining)
	}
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	lp := NewLoginProtection()

	for i := 0; i < 4; i++ {
		lp.RecordFailedAttempt("user@example.com")
	}
	lp.RecordSuccessfulLogin("user@example.com")

	locked, _ := lp.RecordFailedAttempt("user@example.com")
	if locked {
		t.Error("attempt count should reset after successful login")
	}
}

func TestLockoutBackoffDoubles(t *testing.T) {
	lp := NewLoginProtection()

	for i := 0; i < 5; i++ {
		lp.RecordFailedAttempt("user@example.com")
	}
	// Expire the first lockout and fail again
	lp.mu.Lock()
	lp.attempts["user@example.com"].lockedUntil = time.Now().Add(-time.Minute)
	lp.mu.Unlock()

	var duration time.Duration
	var locked bool
	for i := 0; i < 5; i++ {
		locked, duration = lp.RecordFailedAttempt("user@example.com")
	}
	if !locked {
		t.Fatal("second round of failures should lock again")
	}
	if duration != 30*time.Minute {
		t.Errorf("second lockout = %v, want 30m", duration)
	}
}

func TestMiddlewareRateLimitsPosts(t *testing.T) {
	lp := NewLoginProtection()
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}
	if lastCode != http.StatusTooManyRequests {
		t.Errorf("burst-exceeding request status = %d, want 429", lastCode)
	}

	// GET requests bypass the limiter
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	if got := ClientIP(req); got != "192.0.2.1:5000" {
		t.Errorf("ClientIP = %q, want RemoteAddr", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("ClientIP = %q, want X-Forwarded-For value", got)
	}

	req.Header.Set("X-Real-IP", "198.51.100.2")
	if got := ClientIP(req); got != "198.51.100.2" {
		t.Errorf("ClientIP = %q, want X-Real-IP value", got)
	}
}

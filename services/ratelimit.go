package services

import (
	"sync"
	"time"

	"github.com/lborres/vestibule/core"
)

const defaultResetCooldown = 5 * time.Minute

// ResetLimiter gates repeated password-reset requests per normalized email.
//
// It is a process-local map with no eviction: one entry per distinct email
// for the lifetime of the process. Reserve is an atomic check-and-stamp under
// the mutex, so two concurrent requests for the same email cannot both pass
// the cooldown check. Multi-instance deployments need a shared TTL store
// instead; this is deliberately single-instance.
type ResetLimiter struct {
	mu          sync.Mutex
	lastRequest map[string]time.Time
	window      time.Duration

	now func() time.Time // overridable in tests
}

func NewResetLimiter(window time.Duration) *ResetLimiter {
	if window <= 0 {
		window = defaultResetCooldown
	}

	return &ResetLimiter{
		lastRequest: make(map[string]time.Time),
		window:      window,
		now:         time.Now,
	}
}

// Reserve records a request stamp for the email if it is outside the
// cooldown window. Inside the window it returns a CooldownError carrying the
// remaining wait and leaves the previous stamp in place.
func (l *ResetLimiter) Reserve(email string) *core.CooldownError {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastRequest[email]; ok {
		elapsed := now.Sub(last)
		if elapsed < l.window {
			return &core.CooldownError{Wait: l.window - elapsed}
		}
	}

	l.lastRequest[email] = now
	return nil
}

// Forget drops the stamp for the email. Used when a reserved request fails
// downstream (mail send failure) so the caller may retry immediately.
func (l *ResetLimiter) Forget(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.lastRequest, email)
}

func (l *ResetLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastRequest)
}

package middleware

import (
	"sync"
	"time"
)

// In-memory failed-login lockout. After maxFailed attempts a user is locked
// for lockDuration; any successful login resets the counter.

const (
	maxFailedLogins = 5
	lockDuration    = 15 * time.Minute
)

type loginAttempts struct {
	failed    int
	lockUntil time.Time
}

var (
	lockoutMu sync.Mutex
	lockouts  = make(map[string]*loginAttempts)
)

// RecordFailedLogin bumps the failed counter and starts a lock when the
// threshold is crossed. Keyed by username so attempts against accounts
// that do not exist are counted too.
func RecordFailedLogin(username string) {
	lockoutMu.Lock()
	defer lockoutMu.Unlock()
	a := lockouts[username]
	if a == nil {
		a = &loginAttempts{}
		lockouts[username] = a
	}
	a.failed++
	if a.failed >= maxFailedLogins {
		a.lockUntil = time.Now().Add(lockDuration)
	}
}

// IsAccountLocked reports whether the username is locked and for how much longer.
func IsAccountLocked(username string) (bool, time.Duration) {
	lockoutMu.Lock()
	defer lockoutMu.Unlock()
	a := lockouts[username]
	if a == nil {
		return false, 0
	}
	if remaining := time.Until(a.lockUntil); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// ResetFailedLogin clears the counter after a successful login.
func ResetFailedLogin(username string) {
	lockoutMu.Lock()
	defer lockoutMu.Unlock()
	delete(lockouts, username)
}

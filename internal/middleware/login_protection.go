// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginProtection combines per-IP rate limiting with account lockout
// after repeated failures.
type LoginProtection struct {
	mu         sync.Mutex
	ipLimiters map[string]*rate.Limiter
	attempts   map[string]*loginAttempt

	ipRate  rate.Limit
	ipBurst int

	maxFailedAttempts int
	lockoutDuration   time.Duration // Doubles with each lockout, capped at 24h
	attemptWindow     time.Duration
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is login requests per second per IP.
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting.
	IPBurst int
	// MaxFailedAttempts before account lockout.
	MaxFailedAttempts int
	// LockoutDuration is the base lockout time.
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts.
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns sensible defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5, // 1 request per 2 seconds
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a new login protection instance.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = 0.5
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = 5
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	return &LoginProtection{
		ipLimiters:        make(map[string]*rate.Limiter),
		attempts:          make(map[string]*loginAttempt),
		ipRate:            rate.Limit(cfg.IPRateLimit),
		ipBurst:           cfg.IPBurst,
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
	}
}

// CheckIPRateLimit reports whether a login request from the given IP
// should be allowed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	lp.mu.Lock()
	limiter, ok := lp.ipLimiters[ip]
	if !ok {
		// Bound the map so a scan across many IPs cannot grow it forever.
		if len(lp.ipLimiters) > 10000 {
			lp.ipLimiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(lp.ipRate, lp.ipBurst)
		lp.ipLimiters[ip] = limiter
	}
	lp.mu.Unlock()

	return limiter.Allow()
}

// IsAccountLocked reports whether an account is currently locked and for
// how much longer.
func (lp *LoginProtection) IsAccountLocked(username string) (bool, time.Duration) {
	lp.mu.Lock()
	attempt, exists := lp.attempts[username]
	lp.mu.Unlock()

	if !exists {
		return false, 0
	}
	if time.Now().Before(attempt.lockedUntil) {
		return true, time.Until(attempt.lockedUntil)
	}
	return false, 0
}

// RecordFailedAttempt records a failed login. Returns the lock state and
// duration if the account is now locked.
func (lp *LoginProtection) RecordFailedAttempt(username string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	attempt, exists := lp.attempts[username]

	if !exists || now.Sub(attempt.firstFailed) > lp.attemptWindow {
		lp.attempts[username] = &loginAttempt{count: 1, firstFailed: now}
		return false, 0
	}

	attempt.count++
	if attempt.count < lp.maxFailedAttempts {
		return false, 0
	}

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

	slog.Warn("account locked after failed logins",
		"username", username,
		"lockouts", attempt.lockouts,
		"duration", lockDuration,
	)

	return true, lockDuration
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(username string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	delete(lp.attempts, username)
}

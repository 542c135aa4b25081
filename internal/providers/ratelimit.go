package providers

import (
	"context"
	"math"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every oracle call made through
// one provider. A 429 drains the bucket and pauses it for Retry-After.
type RateLimiter struct {
	mu sync.Mutex

	rate  float64 // tokens per second
	burst float64

	tokens       float64
	lastUpdate   time.Time
	blockedUntil time.Time

	totalConsumed int64
	totalWaited   time.Duration
	last429Time   time.Time
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	TokensAvailable int           `json:"tokens_available"`
	TokensLimit     int           `json:"tokens_limit"`
	RatePerSecond   float64       `json:"rate_per_second"`
	TimeUntilToken  time.Duration `json:"time_until_token"`
	TotalConsumed   int64         `json:"total_consumed"`
	TotalWaited     time.Duration `json:"total_waited"`
	Last429Time     time.Time     `json:"last_429_time,omitempty"`
}

// NewRateLimiter creates a limiter admitting requestsPerSecond on average
// with a burst of one second's worth of tokens.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.5 // 150 RPM
	}
	burst := math.Max(1, math.Ceil(requestsPerSecond))
	return &RateLimiter{
		rate:       requestsPerSecond,
		burst:      burst,
		tokens:     burst,
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		r.refill(now)

		if now.After(r.blockedUntil) && r.tokens >= 1.0 {
			r.tokens--
			r.totalConsumed++
			r.mu.Unlock()
			return nil
		}
		wait := r.waitLocked(now)
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.mu.Lock()
			r.totalWaited += wait
			r.mu.Unlock()
		}
	}
}

// TryConsume takes a token without blocking.
func (r *RateLimiter) TryConsume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.refill(now)
	if now.Before(r.blockedUntil) || r.tokens < 1.0 {
		return false
	}
	r.tokens--
	r.totalConsumed++
	return true
}

// Record429 drains the bucket and, when retryAfter is positive, holds every
// waiter until it has elapsed.
func (r *RateLimiter) Record429(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.last429Time = now
	r.tokens = 0
	if until := now.Add(retryAfter); retryAfter > 0 && until.After(r.blockedUntil) {
		r.blockedUntil = until
	}
}

// Status returns current limiter status.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.refill(now)

	var untilToken time.Duration
	if r.tokens < 1.0 || now.Before(r.blockedUntil) {
		untilToken = r.waitLocked(now)
	}

	return RateLimiterStatus{
		TokensAvailable: int(r.tokens),
		TokensLimit:     int(r.burst),
		RatePerSecond:   r.rate,
		TimeUntilToken:  untilToken,
		TotalConsumed:   r.totalConsumed,
		TotalWaited:     r.totalWaited,
		Last429Time:     r.last429Time,
	}
}

// waitLocked returns how long until the next token can be taken.
func (r *RateLimiter) waitLocked(now time.Time) time.Duration {
	var wait time.Duration
	if r.tokens < 1.0 {
		wait = time.Duration((1.0 - r.tokens) / r.rate * float64(time.Second))
	}
	if blocked := r.blockedUntil.Sub(now); blocked > wait {
		wait = blocked
	}
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return wait
}

// refill adds tokens for elapsed time. Must be called with lock held.
func (r *RateLimiter) refill(now time.Time) {
	elapsed := now.Sub(r.lastUpdate).Seconds()
	r.lastUpdate = now
	r.tokens = math.Min(r.burst, r.tokens+elapsed*r.rate)
}

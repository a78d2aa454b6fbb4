package classifier

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BreakerState is the state of the circuit breaker.
type BreakerState string

const (
	BreakerClosed   BreakerState = "CLOSED"
	BreakerOpen     BreakerState = "OPEN"
	BreakerHalfOpen BreakerState = "HALF_OPEN"
)

// GuardConfig bounds how hard the classifier may lean on the model provider.
type GuardConfig struct {
	PerMinute        int
	PerDay           int
	FailureThreshold int
	OpenTimeout      time.Duration
}

// DefaultGuardConfig matches the free-tier quota of the model provider.
var DefaultGuardConfig = GuardConfig{
	PerMinute:        20,
	PerDay:           1000,
	FailureThreshold: 5,
	OpenTimeout:      5 * time.Minute,
}

// Guard combines a rate limiter and a circuit breaker in front of a Model.
// A Guard is safe for concurrent use; each classifier owns its own.
type Guard struct {
	mu  sync.Mutex
	cfg GuardConfig
	now func() time.Time

	minute   *rate.Limiter
	day      time.Time
	dayCount int

	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
}

// GuardOption customises a Guard.
type GuardOption func(*Guard)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) GuardOption {
	return func(g *Guard) { g.now = now }
}

// NewGuard creates a Guard. Zero config fields take their defaults.
func NewGuard(cfg GuardConfig, opts ...GuardOption) *Guard {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = DefaultGuardConfig.PerMinute
	}
	if cfg.PerDay <= 0 {
		cfg.PerDay = DefaultGuardConfig.PerDay
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultGuardConfig.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultGuardConfig.OpenTimeout
	}

	g := &Guard{
		cfg:    cfg,
		now:    time.Now,
		minute: rate.NewLimiter(rate.Limit(float64(cfg.PerMinute)/60), cfg.PerMinute),
		state:  BreakerClosed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Acquire reserves one model call. It fails with CIRCUIT_OPEN while the
// breaker is open (or a half-open probe is already in flight) and with
// RATE_LIMITED once the per-minute or per-day budget is spent. Every
// successful Acquire must be followed by RecordSuccess or RecordFailure.
func (g *Guard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.advance(now)

	switch g.state {
	case BreakerOpen:
		return &ClassifierError{
			Code:    ErrCircuitOpen,
			Message: fmt.Sprintf("circuit open until %s", g.openedAt.Add(g.cfg.OpenTimeout).Format(time.RFC3339)),
		}
	case BreakerHalfOpen:
		if g.probing {
			return &ClassifierError{Code: ErrCircuitOpen, Message: "half-open probe in flight"}
		}
	}

	today := now.UTC().Truncate(24 * time.Hour)
	if !today.Equal(g.day) {
		g.day = today
		g.dayCount = 0
	}
	if g.dayCount >= g.cfg.PerDay {
		return &ClassifierError{Code: ErrRateLimited, Message: fmt.Sprintf("daily limit of %d calls reached", g.cfg.PerDay)}
	}
	if !g.minute.AllowN(now, 1) {
		return &ClassifierError{Code: ErrRateLimited, Message: fmt.Sprintf("limit of %d calls per minute reached", g.cfg.PerMinute)}
	}

	g.dayCount++
	if g.state == BreakerHalfOpen {
		g.probing = true
	}
	return nil
}

// RecordSuccess closes the breaker and clears the failure count.
func (g *Guard) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != BreakerClosed {
		log.Printf("[Guard] circuit %s -> %s", g.state, BreakerClosed)
	}
	g.state = BreakerClosed
	g.failures = 0
	g.probing = false
}

// RecordFailure counts a failed model call. A failed half-open probe, or
// reaching the failure threshold, opens the breaker.
func (g *Guard) RecordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.failures++
	g.probing = false

	if g.state == BreakerHalfOpen || (g.state == BreakerClosed && g.failures >= g.cfg.FailureThreshold) {
		log.Printf("[Guard] circuit %s -> %s after %d failure(s)", g.state, BreakerOpen, g.failures)
		g.state = BreakerOpen
		g.openedAt = now
	}
}

// State returns the breaker state as of now.
func (g *Guard) State() BreakerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advance(g.now())
	return g.state
}

// CallsToday returns how many calls have been admitted on the current UTC day.
func (g *Guard) CallsToday() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.now().UTC().Truncate(24 * time.Hour).Equal(g.day) {
		return 0
	}
	return g.dayCount
}

// advance moves an expired OPEN breaker to HALF_OPEN. Caller holds mu.
func (g *Guard) advance(now time.Time) {
	if g.state == BreakerOpen && now.Sub(g.openedAt) >= g.cfg.OpenTimeout {
		log.Printf("[Guard] circuit %s -> %s", BreakerOpen, BreakerHalfOpen)
		g.state = BreakerHalfOpen
		g.probing = false
	}
}

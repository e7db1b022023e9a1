package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards the SMTP relay. FailureThreshold consecutive failures open the
// breaker; calls then fail fast until OpenTimeout has passed. The next call
// is a trial: success closes the breaker, failure opens it again.

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "closed"
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig is used for the SMTP breaker.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 5, OpenTimeout: time.Minute}
}

type CircuitBreaker struct {
	name string
	cfg  CircuitBreakerConfig

	mu       sync.Mutex
	failures int
	openedAt time.Time // zero while closed
}

func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{name: name, cfg: cfg}
}

func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	switch {
	case cb.openedAt.IsZero():
		return CBClosed
	case time.Since(cb.openedAt) < cb.cfg.OpenTimeout:
		return CBOpen
	}
	return CBHalfOpen
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}
	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	before := cb.stateLocked()
	if err == nil {
		cb.failures = 0
		cb.openedAt = time.Time{}
	} else {
		cb.failures++
		if before == CBHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			cb.openedAt = time.Now()
		}
	}
	if after := cb.stateLocked(); after != before {
		log.Warn().
			Str("breaker", cb.name).
			Str("from", before.String()).
			Str("to", after.String()).
			Msg("circuit breaker state change")
	}
	return err
}

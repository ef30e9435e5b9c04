package clients

import (
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// HalfOpenLimit caps in-flight probes and is the number of probe
	// successes needed to close again.
	HalfOpenLimit int
}

// CircuitBreaker stops calls to a failing downstream.
//
//	closed    --MaxFailures failures--> open
//	open      --Timeout elapsed-------> half-open
//	half-open --HalfOpenLimit oks-----> closed
//	half-open --any failure-----------> open
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	state    State
	failures int
	probes   int
	oks      int
	openedAt time.Time

	onChange func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker returns a closed breaker. Non-positive limits are treated as 1.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run after every transition, outside the lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onChange = fn
}

// Allow reports whether a call may proceed. It moves an expired open circuit
// to half-open and admits at most HalfOpenLimit concurrent probes.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var notify func()

	allowed := false

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
			notify = cb.moveLocked(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	cb.mu.Unlock()
	run(notify)

	return allowed
}

// RecordSuccess reports a completed call.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.probes = max(cb.probes-1, 0)
		cb.oks++

		if cb.oks >= cb.cfg.HalfOpenLimit {
			notify = cb.moveLocked(StateClosed)
		}
	}

	cb.mu.Unlock()
	run(notify)
}

// RecordFailure reports a failed call.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			notify = cb.moveLocked(StateOpen)
		}
	case StateHalfOpen:
		notify = cb.moveLocked(StateOpen)
	}

	cb.mu.Unlock()
	run(notify)
}

// State returns the current state without triggering transitions.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// moveLocked switches state and resets counters. It returns the pending
// notification, if any, for the caller to run after unlocking.
func (cb *CircuitBreaker) moveLocked(to State) func() {
	from := cb.state
	if from == to {
		return nil
	}

	cb.state = to
	cb.failures, cb.probes, cb.oks = 0, 0, 0

	if to == StateOpen {
		cb.openedAt = cb.now()
	}

	if fn := cb.onChange; fn != nil {
		return func() { fn(from, to) }
	}

	return nil
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}

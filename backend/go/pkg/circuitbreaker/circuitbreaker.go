package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed lets every call through and counts consecutive failures.
	Closed State = iota
	// Open rejects calls until the cool-down has elapsed.
	Open
	// HalfOpen lets trial calls through to test recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Settings configures a Breaker.
type Settings struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// SuccessThreshold is the number of consecutive half-open successes that closes it again.
	SuccessThreshold uint32
	// Timeout is how long the circuit stays open before allowing a trial call.
	Timeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// OnStateChange, if set, is called after every transition, outside the lock.
	OnStateChange func(from, to State)
}

// Breaker is a consecutive-failure circuit breaker. The zero value is not usable;
// construct one with New.
type Breaker struct {
	settings  Settings
	mu        sync.Mutex
	state     State
	failures  uint32
	successes uint32
	openedAt  time.Time
}

// New returns a closed Breaker. Zero thresholds are raised to 1.
func New(s Settings) *Breaker {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 1
	}
	if s.SuccessThreshold == 0 {
		s.SuccessThreshold = 1
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return &Breaker{settings: s, state: Closed}
}

// State returns the current state, moving Open to HalfOpen if the timeout has passed.
func (b *Breaker) State() State {
	b.mu.Lock()
	from, to := b.refresh()
	state := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return state
}

// Execute runs fn unless the circuit is open. A non-nil error from fn counts as a
// failure and is returned unchanged.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	from, to := b.refresh()
	if b.state == Open {
		b.mu.Unlock()
		b.notify(from, to)
		return ErrCircuitOpen
	}
	b.mu.Unlock()
	b.notify(from, to)

	err := fn()

	b.mu.Lock()
	if err != nil {
		from, to = b.onFailure()
	} else {
		from, to = b.onSuccess()
	}
	b.mu.Unlock()
	b.notify(from, to)
	return err
}

// refresh must be called with the lock held.
func (b *Breaker) refresh() (State, State) {
	if b.state == Open && b.settings.Now().Sub(b.openedAt) >= b.settings.Timeout {
		return b.setState(HalfOpen)
	}
	return b.state, b.state
}

func (b *Breaker) onSuccess() (State, State) {
	switch b.state {
	case HalfOpen:
		b.successes++
		if b.successes >= b.settings.SuccessThreshold {
			return b.setState(Closed)
		}
	case Closed:
		b.failures = 0
	}
	return b.state, b.state
}

func (b *Breaker) onFailure() (State, State) {
	switch b.state {
	case HalfOpen:
		return b.setState(Open)
	case Closed:
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			return b.setState(Open)
		}
	}
	return b.state, b.state
}

func (b *Breaker) setState(to State) (State, State) {
	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == Open {
		b.openedAt = b.settings.Now()
	}
	return from, to
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(from, to)
	}
}

package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the breaker's position in the closed -> open -> half-open cycle.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var (
	// ErrOpen is returned while the breaker refuses calls outright.
	ErrOpen = errors.New("circuitbreaker: open")
	// ErrHalfOpenSaturated is returned when the half-open probe budget is spent.
	ErrHalfOpenSaturated = errors.New("circuitbreaker: half-open probe limit reached")
)

// Settings tune one breaker instance.
type Settings struct {
	FailureThreshold uint32        // consecutive failures that trip the breaker
	SuccessThreshold uint32        // consecutive half-open successes that close it
	CoolDown         time.Duration // open duration before probing resumes
	Window           time.Duration // closed-state counter reset interval
	HalfOpenRequests uint32        // concurrent probes allowed while half-open
}

// DefaultSettings suit a flaky external HTTP collaborator.
func DefaultSettings() Settings {
	return Settings{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		CoolDown:         10 * time.Second,
		Window:           time.Minute,
		HalfOpenRequests: 3,
	}
}

type counts struct {
	requests             uint32
	consecutiveSuccesses uint32
	consecutiveFailures  uint32
}

// Breaker guards an unreliable upstream: after enough consecutive failures
// it fails fast instead of piling more requests onto a struggling service,
// then probes cautiously before resuming full traffic.
type Breaker struct {
	name     string
	settings Settings
	logger   *zap.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	counts     counts
	expiry     time.Time
}

// New builds a breaker with the given settings.
func New(name string, s Settings, logger *zap.Logger) *Breaker {
	return &Breaker{
		name:     name,
		settings: s,
		logger:   logger,
		state:    StateClosed,
		expiry:   time.Now().Add(s.Window),
	}
}

// Do runs fn through the breaker. It returns ErrOpen or
// ErrHalfOpenSaturated without calling fn when the breaker refuses, and
// otherwise returns fn's error unchanged.
func (b *Breaker) Do(fn func() error) error {
	generation, err := b.before()
	if err != nil {
		return err
	}
	err = fn()
	b.after(generation, err == nil)
	return err
}

// State reports the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, _ := b.currentState(time.Now())
	return state
}

func (b *Breaker) before() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state, generation := b.currentState(now)

	switch {
	case state == StateOpen:
		return generation, ErrOpen
	case state == StateHalfOpen && b.counts.requests >= b.settings.HalfOpenRequests:
		return generation, ErrHalfOpenSaturated
	}
	b.counts.requests++
	return generation, nil
}

func (b *Breaker) after(before uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state, generation := b.currentState(now)
	if generation != before {
		// The breaker moved on while this call was in flight.
		return
	}

	if success {
		b.onSuccess(state, now)
	} else {
		b.onFailure(state, now)
	}
}

func (b *Breaker) currentState(now time.Time) (State, uint64) {
	switch b.state {
	case StateClosed:
		if !b.expiry.IsZero() && b.expiry.Before(now) {
			b.newGeneration(now)
		}
	case StateOpen:
		if b.expiry.Before(now) {
			b.setState(StateHalfOpen, now)
		}
	}
	return b.state, b.generation
}

func (b *Breaker) onSuccess(state State, now time.Time) {
	switch state {
	case StateClosed:
		b.counts.consecutiveFailures = 0
	case StateHalfOpen:
		b.counts.consecutiveSuccesses++
		if b.counts.consecutiveSuccesses >= b.settings.SuccessThreshold {
			b.setState(StateClosed, now)
		}
	}
}

func (b *Breaker) onFailure(state State, now time.Time) {
	switch state {
	case StateClosed:
		b.counts.consecutiveFailures++
		if b.counts.consecutiveFailures >= b.settings.FailureThreshold {
			b.setState(StateOpen, now)
		}
	case StateHalfOpen:
		// One failed probe is enough to re-open.
		b.setState(StateOpen, now)
	}
}

func (b *Breaker) setState(state State, now time.Time) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	b.newGeneration(now)

	b.logger.Info("Circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", prev.String()),
		zap.String("to", state.String()),
	)
}

func (b *Breaker) newGeneration(now time.Time) {
	b.generation++
	b.counts = counts{}

	switch b.state {
	case StateClosed:
		if b.settings.Window == 0 {
			b.expiry = time.Time{}
		} else {
			b.expiry = now.Add(b.settings.Window)
		}
	case StateOpen:
		b.expiry = now.Add(b.settings.CoolDown)
	default:
		b.expiry = time.Time{}
	}
}

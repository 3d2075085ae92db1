package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen reports a call rejected without being attempted because the
// upstream is cooling down.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker's position in the closed/open/half-open cycle
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// Settings configures a Breaker. MaxFailures consecutive failures trip
// it open; after Cooldown a single trial call is let through.
type Settings struct {
	MaxFailures int
	Cooldown    time.Duration
}

// Breaker wraps calls to a flaky upstream so a dead collaborator fails
// fast instead of costing a full timeout on every request.
type Breaker struct {
	maxFailures int
	cooldown    time.Duration

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
}

func New(settings Settings) *Breaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{
		maxFailures: settings.MaxFailures,
		cooldown:    settings.Cooldown,
	}
}

// Execute runs fn unless the breaker is open. A failure during the
// half-open trial re-opens it immediately; a success closes it and
// clears the failure count.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if time.Since(b.lastFailure) < b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = StateHalfOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.lastFailure = time.Now()
		if b.state == StateHalfOpen || b.failures >= b.maxFailures {
			b.state = StateOpen
		}
		return err
	}

	b.state = StateClosed
	b.failures = 0
	return nil
}

// State reports the breaker's current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

var ErrDeadlineExceeded = errors.New("polling deadline exceeded")

// State represents the poller state
type State int

const (
	StatePolling State = iota
	StateSatisfied
	StateExhausted
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateSatisfied:
		return "satisfied"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Settings configures the poller behavior
type Settings struct {
	// Timeout bounds the whole run; zero means a single attempt
	Timeout time.Duration
	// Interval is the minimum spacing between attempts
	Interval time.Duration
	// OnAttempt is called after every attempt
	OnAttempt func(name string, attempt int, err error)
	// OnStateChange is called when a run leaves the polling state
	OnStateChange func(name string, from State, to State)
}

// Attempt performs one try. It reports done=true once the condition holds;
// errors are retained but do not stop polling.
type Attempt func(ctx context.Context) (done bool, err error)

// Outcome summarizes one run
type Outcome struct {
	State    State
	Attempts int
	Elapsed  time.Duration
	// LastErr is the error of the most recent failed attempt
	LastErr error
}

// Poller repeats an attempt until it succeeds or the timeout elapses
type Poller struct {
	name     string
	settings Settings
}

// New creates a new poller with the given settings
func New(name string, settings Settings) *Poller {
	if settings.Interval <= 0 {
		settings.Interval = 50 * time.Millisecond
	}
	if settings.Timeout < 0 {
		settings.Timeout = 0
	}

	return &Poller{
		name:     name,
		settings: settings,
	}
}

// Name returns the name of the poller
func (p *Poller) Name() string {
	return p.name
}

// Settings returns a copy of the poller settings
func (p *Poller) Settings() Settings {
	return p.settings
}

// Run calls attempt until it reports done or the deadline, fixed at entry,
// has passed. An attempt that fails before the deadline is always followed
// by another, so the final attempt starts no earlier than the deadline.
// A cancelled ctx stops the run with ctx's error.
func (p *Poller) Run(ctx context.Context, attempt Attempt) (Outcome, error) {
	start := time.Now()
	deadline := start.Add(p.settings.Timeout)

	// A fresh limiter per run; the initial token is spent on the first attempt
	limiter := rate.NewLimiter(rate.Every(p.settings.Interval), 1)
	limiter.Allow()

	out := Outcome{State: StatePolling}
	for {
		done, err := attempt(ctx)
		out.Attempts++
		if err != nil {
			out.LastErr = err
		}
		if p.settings.OnAttempt != nil {
			p.settings.OnAttempt(p.name, out.Attempts, err)
		}

		if done {
			return p.finish(out, start, StateSatisfied), nil
		}
		if !time.Now().Before(deadline) {
			return p.finish(out, start, StateExhausted), ErrDeadlineExceeded
		}

		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() == nil {
				// ctx expires before the next slot
				<-ctx.Done()
			}
			return p.finish(out, start, StateExhausted), fmt.Errorf("poll %s: %w", p.name, ctx.Err())
		}
	}
}

func (p *Poller) finish(out Outcome, start time.Time, state State) Outcome {
	out.Elapsed = time.Since(start)
	out.State = state
	if p.settings.OnStateChange != nil {
		p.settings.OnStateChange(p.name, StatePolling, state)
	}
	return out
}

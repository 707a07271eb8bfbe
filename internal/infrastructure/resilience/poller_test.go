package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StatePolling, "polling"},
		{StateSatisfied, "satisfied"},
		{StateExhausted, "exhausted"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestPollerRun(t *testing.T) {
	tests := []struct {
		name         string
		settings     Settings
		succeedAt    int // attempt number that succeeds, 0 = never
		wantState    State
		wantAttempts int
		wantErr      error
	}{
		{
			name:         "first attempt succeeds",
			settings:     Settings{Timeout: time.Second, Interval: 10 * time.Millisecond},
			succeedAt:    1,
			wantState:    StateSatisfied,
			wantAttempts: 1,
		},
		{
			name:         "third attempt succeeds",
			settings:     Settings{Timeout: time.Second, Interval: 10 * time.Millisecond},
			succeedAt:    3,
			wantState:    StateSatisfied,
			wantAttempts: 3,
		},
		{
			name:         "zero timeout makes one attempt",
			settings:     Settings{Interval: 10 * time.Millisecond},
			wantState:    StateExhausted,
			wantAttempts: 1,
			wantErr:      ErrDeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poller := New("test", tt.settings)

			attempts := 0
			out, err := poller.Run(context.Background(), func(ctx context.Context) (bool, error) {
				attempts++
				return attempts == tt.succeedAt, nil
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantState, out.State)
			assert.Equal(t, tt.wantAttempts, out.Attempts)
		})
	}
}

func TestPollerDeadline(t *testing.T) {
	timeout := 100 * time.Millisecond
	interval := 20 * time.Millisecond
	poller := New("deadline", Settings{Timeout: timeout, Interval: interval})

	var last time.Time
	start := time.Now()
	out, err := poller.Run(context.Background(), func(ctx context.Context) (bool, error) {
		last = time.Now()
		return false, nil
	})

	assert.ErrorIs(t, err, ErrDeadlineExceeded)
	assert.Equal(t, StateExhausted, out.State)
	assert.False(t, last.Before(start.Add(timeout)), "last attempt started before the deadline")
	assert.GreaterOrEqual(t, out.Elapsed, timeout)
	assert.Less(t, out.Elapsed, timeout+interval+200*time.Millisecond)
	assert.Greater(t, out.Attempts, 1)
}

func TestPollerKeepsLastError(t *testing.T) {
	boom := errors.New("boom")
	poller := New("errors", Settings{Timeout: 30 * time.Millisecond, Interval: 5 * time.Millisecond})

	calls := 0
	out, err := poller.Run(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		if calls == 1 {
			return false, boom
		}
		return false, nil
	})

	assert.ErrorIs(t, err, ErrDeadlineExceeded)
	assert.ErrorIs(t, out.LastErr, boom)
}

func TestPollerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	poller := New("cancel", Settings{Timeout: time.Minute, Interval: 10 * time.Millisecond})

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	out, err := poller.Run(ctx, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateExhausted, out.State)
	assert.Less(t, out.Elapsed, time.Second)
}

func TestPollerCallbacks(t *testing.T) {
	var mu sync.Mutex
	var transitions []State
	var attempts []int

	poller := New("callbacks", Settings{
		Timeout:  time.Second,
		Interval: time.Millisecond,
		OnAttempt: func(name string, attempt int, err error) {
			mu.Lock()
			defer mu.Unlock()
			attempts = append(attempts, attempt)
		},
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "callbacks", name)
			assert.Equal(t, StatePolling, from)
			transitions = append(transitions, to)
		},
	})

	n := 0
	_, err := poller.Run(context.Background(), func(ctx context.Context) (bool, error) {
		n++
		return n == 2, nil
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, attempts)
	assert.Equal(t, []State{StateSatisfied}, transitions)
}

func TestNewDefaults(t *testing.T) {
	poller := New("defaults", Settings{Timeout: -time.Second})
	assert.Equal(t, "defaults", poller.Name())
	assert.Equal(t, 50*time.Millisecond, poller.Settings().Interval)
	assert.Equal(t, time.Duration(0), poller.Settings().Timeout)
}

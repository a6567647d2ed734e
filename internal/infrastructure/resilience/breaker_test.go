package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errUnreachable = errors.New("host unreachable")
	errScript      = errors.New("script failed")
)

func fail(err error) func() error { return func() error { return err } }
func succeed() func() error { return func() error { return nil } }
func onlyUnreachable(err error) bool { return !errors.Is(err, errUnreachable) }

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(settings Settings) (*Breaker, *clock) {
	c := &clock{now: time.Unix(1700000000, 0)}
	b := New("test", settings)
	b.now = c.Now
	b.newGeneration(c.Now())
	return b, c
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		requests      []func() error
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			settings:      Settings{Timeout: time.Minute},
			requests:      []func() error{succeed(), succeed(), succeed()},
			expectedState: StateClosed,
		},
		{
			name: "opens after consecutive failures",
			settings: Settings{
				Timeout: time.Minute,
				ReadyToTrip: func(counts Counts) bool {
					return counts.ConsecutiveFailures >= 3
				},
			},
			requests:      []func() error{fail(errUnreachable), fail(errUnreachable), fail(errUnreachable)},
			expectedState: StateOpen,
		},
		{
			name: "success resets the failure run",
			settings: Settings{
				Timeout: time.Minute,
				ReadyToTrip: func(counts Counts) bool {
					return counts.ConsecutiveFailures >= 2
				},
			},
			requests:      []func() error{fail(errUnreachable), succeed(), fail(errUnreachable)},
			expectedState: StateClosed,
		},
		{
			name: "script errors do not trip",
			settings: Settings{
				Timeout:      time.Minute,
				IsSuccessful: onlyUnreachable,
				ReadyToTrip: func(counts Counts) bool {
					return counts.ConsecutiveFailures >= 2
				},
			},
			requests:      []func() error{fail(errScript), fail(errScript), fail(errScript)},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker, _ := newTestBreaker(tt.settings)
			for _, req := range tt.requests {
				_ = breaker.Execute(req)
			}
			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerPassesErrorThrough(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{IsSuccessful: onlyUnreachable})

	err := breaker.Execute(fail(errScript))
	assert.ErrorIs(t, err, errScript)

	counts := breaker.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Zero(t, counts.TotalFailures)
}

func TestBreakerOpenRejects(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{
		Timeout:     time.Minute,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	require.ErrorIs(t, breaker.Execute(fail(errUnreachable)), errUnreachable)
	require.Equal(t, StateOpen, breaker.State())

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
	assert.False(t, breaker.Allow())
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	var transitions []string
	breaker, clk := newTestBreaker(Settings{
		MaxRequests: 2,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = breaker.Execute(fail(errUnreachable))
	require.Equal(t, StateOpen, breaker.State())

	clk.Advance(11 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())
	assert.True(t, breaker.Allow())

	require.NoError(t, breaker.Execute(succeed()))
	assert.Equal(t, StateHalfOpen, breaker.State())
	require.NoError(t, breaker.Execute(succeed()))
	assert.Equal(t, StateClosed, breaker.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	breaker, clk := newTestBreaker(Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	_ = breaker.Execute(fail(errUnreachable))
	clk.Advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	_ = breaker.Execute(fail(errUnreachable))
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerIntervalClearsCounts(t *testing.T) {
	breaker, clk := newTestBreaker(Settings{
		Interval:    time.Minute,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 3 },
	})

	_ = breaker.Execute(fail(errUnreachable))
	_ = breaker.Execute(fail(errUnreachable))
	assert.Equal(t, uint32(2), breaker.Counts().ConsecutiveFailures)

	clk.Advance(2 * time.Minute)
	_ = breaker.Execute(fail(errUnreachable))
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, uint32(1), breaker.Counts().ConsecutiveFailures)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	breaker, _ := newTestBreaker(Settings{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	assert.Panics(t, func() {
		_ = breaker.Execute(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, breaker.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestBreakerConcurrentExecute(t *testing.T) {
	breaker := New("concurrent", Settings{IsSuccessful: onlyUnreachable})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = breaker.Execute(succeed())
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(50), breaker.Counts().TotalSuccesses)
	assert.Equal(t, "concurrent", breaker.Name())
}

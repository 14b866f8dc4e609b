package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk full")

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func outcome(success bool) func() error {
	return func() error {
		if success {
			return nil
		}
		return errDisk
	}
}

func tripAt(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
		{"success resets the streak", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := New("test", Settings{ReadyToTrip: tripAt(3), Clock: newClock().Now})

			for _, success := range tt.requests {
				_ = breaker.Do(outcome(success))
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	breaker := New("test", Settings{Clock: newClock().Now})

	require.NoError(t, breaker.Do(outcome(true)))

	counts := breaker.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)
	assert.Equal(t, uint32(0), counts.TotalFailures)

	assert.ErrorIs(t, breaker.Do(outcome(false)), errDisk)

	counts = breaker.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestBreakerOpenRejectsCalls(t *testing.T) {
	breaker := New("autosave", Settings{ReadyToTrip: tripAt(2), Clock: newClock().Now})

	for i := 0; i < 2; i++ {
		_ = breaker.Do(outcome(false))
	}
	require.Equal(t, StateOpen, breaker.State())

	called := false
	err := breaker.Do(func() error { called = true; return nil })

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Contains(t, err.Error(), "autosave")
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	clock := newClock()
	breaker := New("test", Settings{
		MaxRequests: 2,
		Timeout:     time.Minute,
		ReadyToTrip: tripAt(2),
		Clock:       clock.Now,
	})

	for i := 0; i < 2; i++ {
		_ = breaker.Do(outcome(false))
	}
	require.Equal(t, StateOpen, breaker.State())

	clock.Advance(time.Minute + time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	for i := 0; i < 2; i++ {
		require.NoError(t, breaker.Do(outcome(true)))
	}
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := newClock()
	breaker := New("test", Settings{Timeout: time.Minute, ReadyToTrip: tripAt(1), Clock: clock.Now})

	_ = breaker.Do(outcome(false))
	clock.Advance(2 * time.Minute)
	require.Equal(t, StateHalfOpen, breaker.State())

	_ = breaker.Do(outcome(false))
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerHalfOpenLimitsTrials(t *testing.T) {
	clock := newClock()
	breaker := New("test", Settings{Timeout: time.Minute, ReadyToTrip: tripAt(1), Clock: clock.Now})

	_ = breaker.Do(outcome(false))
	clock.Advance(2 * time.Minute)

	var inner error
	err := breaker.Do(func() error {
		inner = breaker.Do(outcome(true))
		return nil
	})

	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrTooManyRequests)
}

func TestBreakerIntervalClearsCounts(t *testing.T) {
	clock := newClock()
	breaker := New("test", Settings{Interval: time.Minute, ReadyToTrip: tripAt(3), Clock: clock.Now})

	_ = breaker.Do(outcome(false))
	_ = breaker.Do(outcome(false))
	clock.Advance(2 * time.Minute)
	_ = breaker.Do(outcome(false))

	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, uint32(1), breaker.Counts().ConsecutiveFailures)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	breaker := New("test", Settings{ReadyToTrip: tripAt(1), Clock: newClock().Now})

	assert.Panics(t, func() {
		_ = breaker.Do(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	clock := newClock()

	breaker := New("test", Settings{
		Timeout:     time.Minute,
		ReadyToTrip: tripAt(2),
		Clock:       clock.Now,
		OnStateChange: func(name string, from State, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	for i := 0; i < 2; i++ {
		_ = breaker.Do(outcome(false))
	}
	clock.Advance(2 * time.Minute)
	require.NoError(t, breaker.Do(outcome(true)))

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}

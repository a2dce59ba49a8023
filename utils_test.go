package cooploop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSleep_PausesUntilClockAdvances(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	loop := New(WithClock(clock))
	SetRunningLoop(loop)
	defer SetRunningLoop(nil)

	c := Func(func(yield Yield) (struct{}, error) {
		return struct{}{}, Sleep(yield, 5*time.Millisecond)
	})

	done, err := c.Step(nil)
	require.False(t, done)
	require.NoError(t, err)

	// Clock hasn't advanced: still paused.
	done, err = c.Step(nil)
	require.False(t, done)
	require.NoError(t, err)

	now = now.Add(10 * time.Millisecond)
	done, err = c.Step(nil)
	require.True(t, done)
	require.NoError(t, err)
}

func TestGather_CollectsResultsInOrder(t *testing.T) {
	result, err := Run(func(yield Yield) ([]any, error) {
		a := Erase(Func(func(yield Yield) (int, error) {
			if err := yield(); err != nil {
				return 0, err
			}
			return 1, nil
		}))
		b := Erase(Func(func(yield Yield) (string, error) {
			return "two", nil
		}))
		return Gather(yield, 0, a, b)
	})
	require.NoError(t, err)
	require.Equal(t, []any{1, "two"}, result)
}

func TestGather_TimeoutCancelsOutstandingTasks(t *testing.T) {
	now := time.Unix(0, 0)
	loop := New(WithClock(func() time.Time { return now }))

	var cancelled bool
	slow := Erase(Func(func(yield Yield) (int, error) {
		for {
			if err := yield(); err != nil {
				cancelled = true
				return 0, err
			}
		}
	}))

	c := Func(func(yield Yield) ([]any, error) {
		return Gather(yield, 5*time.Millisecond, slow)
	})

	SetRunningLoop(loop)
	defer SetRunningLoop(nil)

	done, err := c.Step(nil)
	require.False(t, done)
	require.NoError(t, err)

	// Let the gathered task actually start and reach its own pause point
	// before the timeout fires, so the cancellation Gather issues has
	// somewhere to be delivered.
	loop.Tick()

	now = now.Add(10 * time.Millisecond)
	done, err = c.Step(nil)
	require.True(t, done)
	require.ErrorIs(t, err, ErrTimeout)
	require.Contains(t, err.Error(), "tasks [1]")
	require.True(t, cancelled)
}

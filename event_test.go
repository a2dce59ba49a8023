package cooploop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvent_WaitReturnsImmediatelyIfAlreadySet(t *testing.T) {
	e := NewEvent()
	e.Set()

	c := Func(func(yield Yield) (struct{}, error) {
		return struct{}{}, e.Wait(yield)
	})
	done, err := c.Step(nil)
	require.True(t, done)
	require.NoError(t, err)
}

func TestEvent_SetBroadcastsToAllWaiters(t *testing.T) {
	e := NewEvent()

	var waiters []Coro[struct{}]
	for i := 0; i < 3; i++ {
		waiters = append(waiters, Func(func(yield Yield) (struct{}, error) {
			return struct{}{}, e.Wait(yield)
		}))
	}

	for _, w := range waiters {
		done, err := w.Step(nil)
		require.False(t, done)
		require.NoError(t, err)
	}

	e.Set()

	for _, w := range waiters {
		done, err := w.Step(nil)
		require.True(t, done)
		require.NoError(t, err)
	}
}

func TestEvent_ClearThenWaitPausesAgain(t *testing.T) {
	e := NewEvent()
	e.Set()
	e.Clear()
	require.False(t, e.IsSet())

	c := Func(func(yield Yield) (struct{}, error) {
		return struct{}{}, e.Wait(yield)
	})
	done, _ := c.Step(nil)
	require.False(t, done)
}

func TestEvent_CancelledWaiterIsRemovedFromQueue(t *testing.T) {
	e := NewEvent()
	c := Func(func(yield Yield) (struct{}, error) {
		return struct{}{}, e.Wait(yield)
	})
	_, _ = c.Step(nil)
	require.Equal(t, 1, e.waiters.Len())

	done, err := c.Step(&CancelledError{})
	require.True(t, done)
	require.True(t, IsCancelled(err))
	require.Equal(t, 0, e.waiters.Len())
}

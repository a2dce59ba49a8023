package cooploop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTask_FinishesNormally(t *testing.T) {
	coro := Func(func(yield Yield) (int, error) {
		return 42, nil
	})
	task := NewTask[int](1, coro)
	require.Equal(t, StatusPending, task.Status())

	task.tick()
	require.True(t, task.Done())
	require.Equal(t, StatusFinished, task.Status())
	require.Equal(t, 42, task.Result())
	require.NoError(t, task.Err())
}

func TestTask_CancelInterruptsNonInterceptingCoro(t *testing.T) {
	started := false
	coro := Func(func(yield Yield) (int, error) {
		started = true
		if err := yield(); err != nil {
			return 0, err
		}
		return 1, nil
	})
	task := NewTask[int](1, coro)
	task.tick()
	require.True(t, started)
	require.False(t, task.Done())

	ok := task.Cancel(nil)
	require.True(t, ok)
	require.True(t, task.Done())
	require.Equal(t, StatusCancelled, task.Status())
	require.True(t, IsCancelled(task.Err()))
}

func TestTask_CancelOfAlreadyDoneTaskIsNoop(t *testing.T) {
	coro := Func(func(yield Yield) (int, error) {
		return 1, nil
	})
	task := NewTask[int](1, coro)
	task.tick()
	require.True(t, task.Done())

	ok := task.Cancel(nil)
	require.False(t, ok)
	require.Equal(t, StatusFinished, task.Status())
}

func TestTask_CoroThatSwallowsCancellationFinishesCancelledWithItsOwnResult(t *testing.T) {
	iterations := 0
	coro := Func(func(yield Yield) (int, error) {
		for {
			err := yield()
			iterations++
			if err != nil {
				return iterations, nil // catches the cancellation
			}
		}
	})
	task := NewTask[int](1, coro)
	task.tick()
	require.False(t, task.Done())

	task.Cancel(nil)
	// the Coro caught the cancellation and returned a value instead of
	// propagating it, so it actually stopped during Cancel's synchronous
	// step, and the task is done with that result, not an error.
	require.True(t, task.Done())
	require.Equal(t, StatusCancelled, task.Status())
	require.NoError(t, task.Err())
	require.Equal(t, 1, task.Result())
}

func TestTask_DoneCallbackFiresOnCompletion(t *testing.T) {
	coro := Func(func(yield Yield) (int, error) {
		return 10, nil
	})
	task := NewTask[int](1, coro)

	var fired *Task[int]
	task.AddDoneCallback(func(tk *Task[int]) { fired = tk })
	require.Nil(t, fired)

	task.tick()
	require.Same(t, task, fired)
}

func TestTask_DoneCallbackFiresImmediatelyIfAlreadyDone(t *testing.T) {
	coro := Func(func(yield Yield) (int, error) {
		return 10, nil
	})
	task := NewTask[int](1, coro)
	task.tick()

	called := false
	task.AddDoneCallback(func(tk *Task[int]) { called = true })
	require.True(t, called)
}

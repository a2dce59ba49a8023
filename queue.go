package cooploop

import (
	"container/list"
	"fmt"
)

// Queue is a bounded FIFO queue for cooperative tasks: Put pauses while
// the queue is full, Get pauses while it is empty, and Join pauses until
// every item put into it has been marked done via TaskDone. A maxsize of 0
// means unbounded.
type Queue[T any] struct {
	maxsize int
	items   []T

	getters *list.List // of *Future[struct{}], tasks paused in Get
	putters *list.List // of *Future[struct{}], tasks paused in Put

	unfinished int
	finished   *Event
}

// NewQueue returns an empty Queue. maxsize <= 0 means unbounded.
func NewQueue[T any](maxsize int) *Queue[T] {
	q := &Queue[T]{
		maxsize: maxsize,
		getters: list.New(),
		putters: list.New(),
		finished: NewEvent(),
	}
	q.finished.Set()
	return q
}

// Len returns the number of items currently queued.
func (q *Queue[T]) Len() int { return len(q.items) }

// Full reports whether the Queue is at capacity.
func (q *Queue[T]) Full() bool {
	return q.maxsize > 0 && len(q.items) >= q.maxsize
}

// Empty reports whether the Queue holds no items.
func (q *Queue[T]) Empty() bool { return len(q.items) == 0 }

// PutNowait enqueues item without pausing, returning ErrQueueFull if the
// Queue is at capacity.
func (q *Queue[T]) PutNowait(item T) error {
	if q.Full() {
		return ErrQueueFull
	}
	q.items = append(q.items, item)
	q.unfinished++
	q.finished.Clear()
	wakeupNext(q.getters)
	return nil
}

// GetNowait dequeues an item without pausing, returning ErrQueueEmpty if
// the Queue holds nothing.
func (q *Queue[T]) GetNowait() (T, error) {
	var zero T
	if q.Empty() {
		return zero, ErrQueueEmpty
	}
	item := q.items[0]
	q.items = q.items[1:]
	wakeupNext(q.putters)
	return item, nil
}

// Put pauses while the Queue is full, then enqueues item.
func (q *Queue[T]) Put(yield Yield, item T) error {
	for q.Full() {
		fut := NewFuture[struct{}]()
		el := q.putters.PushBack(fut)
		logDebug(globalLogger, logCategoryWaiter, fmt.Sprintf("queue putter enqueued, %d waiting", q.putters.Len()))
		_, err := Await(yield, fut)
		q.putters.Remove(el)
		if err != nil {
			if !q.Full() {
				wakeupNext(q.putters)
			}
			return err
		}
	}
	return q.PutNowait(item)
}

// Get pauses while the Queue is empty, then dequeues an item.
func (q *Queue[T]) Get(yield Yield) (T, error) {
	var zero T
	for q.Empty() {
		fut := NewFuture[struct{}]()
		el := q.getters.PushBack(fut)
		logDebug(globalLogger, logCategoryWaiter, fmt.Sprintf("queue getter enqueued, %d waiting", q.getters.Len()))
		_, err := Await(yield, fut)
		q.getters.Remove(el)
		if err != nil {
			if !q.Empty() {
				wakeupNext(q.getters)
			}
			return zero, err
		}
	}
	return q.GetNowait()
}

// TaskDone records that one item previously put into the Queue has been
// fully processed. It returns ErrTaskDoneUnderflow if called more times
// than items have been put.
func (q *Queue[T]) TaskDone() error {
	if q.unfinished <= 0 {
		return ErrTaskDoneUnderflow
	}
	q.unfinished--
	if q.unfinished == 0 {
		q.finished.Set()
	}
	return nil
}

// Join pauses until every item put into the Queue has been marked done
// via TaskDone.
func (q *Queue[T]) Join(yield Yield) error {
	return q.finished.Wait(yield)
}

// String implements fmt.Stringer for diagnostic purposes.
func (q *Queue[T]) String() string {
	return fmt.Sprintf("Queue(maxsize=%d, len=%d, getters=%d, putters=%d)",
		q.maxsize, len(q.items), q.getters.Len(), q.putters.Len())
}

func wakeupNext(waiters *list.List) {
	for el := waiters.Front(); el != nil; el = el.Next() {
		fut := el.Value.(*Future[struct{}])
		if !fut.Done() {
			fut.SetResult(struct{}{})
			logDebug(globalLogger, logCategoryWaiter, "queue waiter woken")
			return
		}
	}
}

package transfer

import (
	"context"
	"sync"

	"github.com/devaccess/devaccess-go/pkg/version"
)

// DefaultQueueLength is the capacity used when NewQueue is given a
// non-positive length.
const DefaultQueueLength = 3

// Notifier is the notification side of a push-type element's read queue.
// It is implemented by Queue.
type Notifier interface {
	// Len returns the number of values waiting to be read.
	Len() int

	attach(f *FanIn, id ID) error
	detach(f *FanIn)
}

type queued[T any] struct {
	value   T
	version version.Number
}

// Queue is the bounded read queue of a push-type element. Any number of
// goroutines may push; one consumer pops.
//
// When the queue is full Push overwrites the newest entry, so the consumer
// always sees the latest value. An overwrite does not produce an additional
// fan-in notification: a fan-in always holds exactly one notification per
// queued value. The pending notification of the overwritten value takes the
// new version.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []queued[T]
	limit  int
	closed bool
	sink   *FanIn
	sinkID ID

	signal chan struct{}
	done   chan struct{}
}

// NewQueue returns a queue holding at most length values.
func NewQueue[T any](length int) *Queue[T] {
	if length <= 0 {
		length = DefaultQueueLength
	}
	return &Queue[T]{
		items:  make([]queued[T], 0, length),
		limit:  length,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push adds a value tagged with its version. It never blocks and reports
// whether an older value was overwritten.
func (q *Queue[T]) Push(value T, v version.Number) (overwritten bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	item := queued[T]{value: value, version: v}
	if len(q.items) >= q.limit {
		q.items[len(q.items)-1] = item
		overwritten = true
		if q.sink != nil {
			q.sink.replaceLast(q.sinkID, v)
		}
	} else {
		q.items = append(q.items, item)
		if q.sink != nil {
			q.sink.push(Entry{Source: q.sinkID, Version: v})
		}
	}
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return overwritten
}

// Pop removes the oldest value, blocking until one is available, ctx is done
// or the queue is closed.
func (q *Queue[T]) Pop(ctx context.Context) (T, version.Number, error) {
	for {
		if value, v, ok := q.TryPop(); ok {
			return value, v, nil
		}
		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			var zero T
			return zero, version.Number{}, ErrQueueClosed
		}
		select {
		case <-q.signal:
		case <-q.done:
		case <-ctx.Done():
			var zero T
			return zero, version.Number{}, ctx.Err()
		}
	}
}

// TryPop removes the oldest value if there is one.
func (q *Queue[T]) TryPop() (T, version.Number, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, version.Number{}, false
	}
	item := q.items[0]
	var zero queued[T]
	q.items[0] = zero
	q.items = q.items[1:]
	return item.value, item.version, true
}

// PopLatest removes every queued value and returns the newest one.
func (q *Queue[T]) PopLatest() (T, version.Number, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, version.Number{}, false
	}
	item := q.items[len(q.items)-1]
	q.items = make([]queued[T], 0, q.limit)
	return item.value, item.version, true
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes up a blocked consumer; later pops on an empty queue fail with
// ErrQueueClosed. Values already queued can still be popped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *Queue[T]) attach(f *FanIn, id ID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sink != nil {
		return ErrQueueAttached
	}
	q.sink = f
	q.sinkID = id

	backlog := make([]Entry, 0, len(q.items))
	for _, item := range q.items {
		backlog = append(backlog, Entry{Source: id, Version: item.version})
	}
	f.seedEntries(backlog)
	return nil
}

func (q *Queue[T]) detach(f *FanIn) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sink == f {
		q.sink = nil
		q.sinkID = 0
	}
}

var _ Notifier = (*Queue[int])(nil)

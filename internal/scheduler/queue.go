package scheduler

import "sync"

// eventKind distinguishes between event kinds.
type eventKind int

const (
	eventRegister eventKind = iota + 1
	eventUnregister
	eventObserve
	eventScroll
	eventComplete
	eventBarrier
)

func (k eventKind) String() string {
	switch k {
	case eventRegister:
		return "register"
	case eventUnregister:
		return "unregister"
	case eventObserve:
		return "observe"
	case eventScroll:
		return "scroll"
	case eventComplete:
		return "complete"
	case eventBarrier:
		return "barrier"
	default:
		return "unknown"
	}
}

// event is one unit of work for the Run loop. Only the fields relevant to
// kind are set.
type event struct {
	kind     eventKind
	slot     SlotID
	name     string
	gen      int64
	entries  []Entry
	viewport Rect
	delivery Delivery
	done     chan struct{}
}

// eventQueue is a thread-safe unbounded FIFO queue for events.
//
// Callers enqueue from any goroutine (UI input, fetch goroutines) while the
// Run loop dequeues. The buffered signal channel enables context-aware
// waiting in the Run loop.
type eventQueue struct {
	mu     sync.Mutex
	events []event
	closed bool
	signal chan struct{} // Signals event availability (buffered, size 1)
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	// Non-blocking; the buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front event without blocking.
func (q *eventQueue) TryDequeue() (event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return event{}, false
	}

	e := q.events[0]

	// Clear the slot so the backing array does not pin entries and channels.
	q.events[0] = event{}

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that signals when events may be available.
// The channel is closed when the queue is closed.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Closed reports whether Close has been called.
func (q *eventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close signals that no more events will be enqueued and wakes waiters.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}

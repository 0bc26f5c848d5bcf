package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/furry-grid/state"
)

// QueueScheduler defers observer callbacks to the state queue and wakes the
// loop so it flushes them. Many callbacks scheduled between flushes cost a
// single QueueFlushMsg.
type QueueScheduler struct {
	queue   *state.Queue
	post    PostFunc
	pending atomic.Bool
}

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post PostFunc) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{queue: queue, post: post}
}

// Queue returns the queue callbacks are deferred to.
func (s *QueueScheduler) Queue() *state.Queue {
	return s.queue
}

// Pending reports whether a flush message is in flight.
func (s *QueueScheduler) Pending() bool {
	return s.pending.Load()
}

// Schedule enqueues fn and posts a flush message unless one is pending.
// A failed post clears the pending flag so the next Schedule retries.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	if s.post == nil || !s.pending.CompareAndSwap(false, true) {
		return
	}
	if !s.post(QueueFlushMsg{}) {
		s.pending.Store(false)
	}
}

// flush runs queued callbacks and reports how many ran.
func (s *QueueScheduler) flush() int {
	s.pending.Store(false)
	return s.queue.Flush()
}

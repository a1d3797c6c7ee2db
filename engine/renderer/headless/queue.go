package headless

import (
	"fmt"
	"sync"

	"github.com/emberengine/ember/engine/containers"
	"github.com/emberengine/ember/engine/renderer/frame"
)

const maxPendingSubmissions = 64

// Queue is an in-memory stand-in for a GPU execution stream.
//
// In pipelined mode (the default) the queue retires the oldest submission
// whenever more than depth submissions are outstanding, emulating a GPU
// running depth frames behind the CPU, and WaitFor retires work on demand.
//
// In manual mode nothing retires until RetireNext or RetireAll is called,
// which lets tests hold completion back deliberately and observe callers
// blocking.
type Queue struct {
	mu      sync.Mutex
	retired *sync.Cond

	pending   *containers.RingQueue[uint64]
	completed uint64
	highest   uint64
	depth     int
	manual    bool
}

type QueueOption func(*Queue)

// WithPipelineDepth lets up to depth submissions stay outstanding before
// the oldest one auto-retires.
func WithPipelineDepth(depth int) QueueOption {
	return func(q *Queue) {
		q.depth = depth
	}
}

// WithManualRetire disables automatic retirement entirely.
func WithManualRetire() QueueOption {
	return func(q *Queue) {
		q.manual = true
	}
}

func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		pending: containers.NewRingQueue[uint64](maxPendingSubmissions),
	}
	q.retired = sync.NewCond(&q.mu)
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Submit enqueues the recording's signal value. Signal values must be
// strictly increasing; a stale or duplicate value is a programming error.
func (q *Queue) Submit(rec frame.Recorder, signal uint64) error {
	if rec == nil {
		return fmt.Errorf("headless: submit of a nil recorder")
	}
	if st := rec.State(); st != frame.RecorderRecordingEnded {
		return fmt.Errorf("headless: submit of a recorder in state %s", st)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if signal <= q.highest {
		return fmt.Errorf("headless: signal %d is not above the previous %d", signal, q.highest)
	}
	if err := q.pending.Enqueue(signal); err != nil {
		return fmt.Errorf("headless: %d submissions outstanding: %w", q.pending.Len(), err)
	}
	q.highest = signal

	if !q.manual {
		for q.pending.Len() > q.depth {
			if err := q.retireLocked(); err != nil {
				return err
			}
		}
	}
	return nil
}

// CompletedValue returns the highest retired signal value.
func (q *Queue) CompletedValue() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.completed
}

// WaitFor blocks until the completed value reaches target. In pipelined
// mode the queue retires its own backlog to get there; waiting for a value
// nothing will ever signal is an error. In manual mode the call blocks
// until another goroutine retires enough submissions.
func (q *Queue) WaitFor(target uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.manual {
		for q.completed < target {
			q.retired.Wait()
		}
		return nil
	}
	for q.completed < target {
		if q.pending.IsEmpty() {
			return fmt.Errorf("headless: wait for %d with nothing in flight (completed %d)", target, q.completed)
		}
		if err := q.retireLocked(); err != nil {
			return err
		}
	}
	return nil
}

// RetireNext marks the oldest outstanding submission complete.
func (q *Queue) RetireNext() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.retireLocked()
}

// RetireAll marks every outstanding submission complete.
func (q *Queue) RetireAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.pending.IsEmpty() {
		q.retireLocked()
	}
}

// PendingCount reports how many submissions have not retired yet.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

func (q *Queue) retireLocked() error {
	target, err := q.pending.Dequeue()
	if err != nil {
		return fmt.Errorf("headless: retire with nothing in flight: %w", err)
	}
	q.completed = target
	q.retired.Broadcast()
	return nil
}

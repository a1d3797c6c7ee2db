package frame

// CompletionCounter pairs a monotonically increasing CPU-side counter with
// the queue's completed value. Every submission is tagged with the next
// counter value; comparing a recorded tag against the completed value tells
// whether that submission's work has retired.
type CompletionCounter struct {
	queue Queue
	last  uint64
}

// NewCompletionCounter resumes the signal sequence from the queue's
// completed value: a counter built over a queue that has already retired
// work must never hand out a signal the queue has seen before. A drained
// queue's completed value is its last issued signal, so rings rebuilt over
// a live device continue the sequence instead of restarting it.
func NewCompletionCounter(queue Queue) *CompletionCounter {
	return &CompletionCounter{queue: queue, last: queue.CompletedValue()}
}

// Advance reserves and returns the next signal value. The zero value is
// never handed out, so a zero target always means "nothing submitted yet".
func (c *CompletionCounter) Advance() uint64 {
	c.last++
	return c.last
}

// LastIssued returns the most recently reserved signal value.
func (c *CompletionCounter) LastIssued() uint64 {
	return c.last
}

// Completed returns the highest signal value the queue has retired.
func (c *CompletionCounter) Completed() uint64 {
	return c.queue.CompletedValue()
}

// WaitFor blocks until the queue has retired the submission tagged with
// target. A zero target returns immediately.
func (c *CompletionCounter) WaitFor(target uint64) error {
	if target == 0 {
		return nil
	}
	if c.queue.CompletedValue() >= target {
		return nil
	}
	return c.queue.WaitFor(target)
}

package frame

import (
	"errors"
	"testing"
)

// stubQueue lets the counter tests control completion directly.
type stubQueue struct {
	completed uint64
	waitedFor []uint64
	waitErr   error
}

func (q *stubQueue) Submit(rec Recorder, signal uint64) error { return nil }
func (q *stubQueue) CompletedValue() uint64                   { return q.completed }
func (q *stubQueue) WaitFor(target uint64) error {
	q.waitedFor = append(q.waitedFor, target)
	if q.waitErr != nil {
		return q.waitErr
	}
	q.completed = target
	return nil
}

func TestCompletionCounterAdvanceIsMonotonic(t *testing.T) {
	c := NewCompletionCounter(&stubQueue{})
	prev := uint64(0)
	for i := 0; i < 10; i++ {
		got := c.Advance()
		if got <= prev {
			t.Fatalf("Advance = %d after %d, want strictly increasing", got, prev)
		}
		prev = got
	}
	if c.LastIssued() != prev {
		t.Errorf("LastIssued = %d, want %d", c.LastIssued(), prev)
	}
}

func TestCompletionCounterWaitForZeroNeverBlocks(t *testing.T) {
	q := &stubQueue{}
	c := NewCompletionCounter(q)
	if err := c.WaitFor(0); err != nil {
		t.Fatal(err)
	}
	if len(q.waitedFor) != 0 {
		t.Errorf("WaitFor(0) reached the queue: %v", q.waitedFor)
	}
}

func TestCompletionCounterSkipsWaitWhenAlreadyDone(t *testing.T) {
	q := &stubQueue{completed: 5}
	c := NewCompletionCounter(q)
	if err := c.WaitFor(5); err != nil {
		t.Fatal(err)
	}
	if len(q.waitedFor) != 0 {
		t.Errorf("wait issued for already-completed target: %v", q.waitedFor)
	}
	if err := c.WaitFor(6); err != nil {
		t.Fatal(err)
	}
	if len(q.waitedFor) != 1 || q.waitedFor[0] != 6 {
		t.Errorf("waitedFor = %v, want [6]", q.waitedFor)
	}
}

func TestCompletionCounterResumesFromQueueProgress(t *testing.T) {
	q := &stubQueue{completed: 7}
	c := NewCompletionCounter(q)
	if got := c.Advance(); got != 8 {
		t.Fatalf("Advance = %d over a queue at 7, want 8", got)
	}
}

func TestCompletionCounterPropagatesWaitErrors(t *testing.T) {
	wantErr := errors.New("device lost")
	c := NewCompletionCounter(&stubQueue{waitErr: wantErr})
	if err := c.WaitFor(1); !errors.Is(err, wantErr) {
		t.Errorf("WaitFor error = %v, want %v", err, wantErr)
	}
}

package containers

import (
	"errors"
	"testing"
)

func TestRingQueueFIFOOrder(t *testing.T) {
	rq := NewRingQueue[uint64](4)
	for i := uint64(1); i <= 4; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	for i := uint64(1); i <= 4; i++ {
		got, err := rq.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if got != i {
			t.Errorf("Dequeue = %d, want %d", got, i)
		}
	}
}

func TestRingQueueWrapAround(t *testing.T) {
	rq := NewRingQueue[int](3)
	for round := 0; round < 5; round++ {
		for i := 0; i < 3; i++ {
			if err := rq.Enqueue(round*10 + i); err != nil {
				t.Fatalf("round %d: Enqueue: %v", round, err)
			}
		}
		for i := 0; i < 3; i++ {
			got, err := rq.Dequeue()
			if err != nil {
				t.Fatalf("round %d: Dequeue: %v", round, err)
			}
			if want := round*10 + i; got != want {
				t.Errorf("round %d: Dequeue = %d, want %d", round, got, want)
			}
		}
	}
}

func TestRingQueueFullAndEmpty(t *testing.T) {
	rq := NewRingQueue[string](2)
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("Dequeue on empty queue: %v, want ErrQueueEmpty", err)
	}
	if _, err := rq.Peek(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("Peek on empty queue: %v, want ErrQueueEmpty", err)
	}

	rq.Enqueue("a")
	rq.Enqueue("b")
	if err := rq.Enqueue("c"); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Enqueue on full queue: %v, want ErrQueueFull", err)
	}

	front, err := rq.Peek()
	if err != nil || front != "a" {
		t.Errorf("Peek = %q, %v, want %q", front, err, "a")
	}
	if got := rq.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}

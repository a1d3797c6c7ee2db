package vulkan

import (
	"fmt"
	"math"
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/emberengine/ember/engine/containers"
	"github.com/emberengine/ember/engine/renderer/frame"
)

const maxPendingSubmissions = 64

type pendingSubmission struct {
	signal uint64
	fence  *Fence
}

// Queue maps the frame package's counter-based completion model onto
// VkQueue + VkFence: every submission carries its own fence, and retiring
// fences in submission order advances the completed value.
type Queue struct {
	context *Context
	handle  vk.Queue

	mu        sync.Mutex
	pending   *containers.RingQueue[pendingSubmission]
	free      []*Fence
	completed uint64
	highest   uint64
}

func NewQueue(context *Context) *Queue {
	return &Queue{
		context: context,
		handle:  context.Device.GraphicsQueue,
		pending: containers.NewRingQueue[pendingSubmission](maxPendingSubmissions),
	}
}

// Submit hands the recorded command buffer to the graphics queue with a
// fresh fence attached.
func (q *Queue) Submit(rec frame.Recorder, signal uint64) error {
	cb, ok := rec.(*CommandBuffer)
	if !ok {
		return fmt.Errorf("vulkan: submit of a foreign recorder %T", rec)
	}
	if st := rec.State(); st != frame.RecorderRecordingEnded {
		return fmt.Errorf("vulkan: submit of a recorder in state %s", st)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if signal <= q.highest {
		return fmt.Errorf("vulkan: signal %d is not above the previous %d", signal, q.highest)
	}

	fence, err := q.obtainFenceLocked()
	if err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cb.Handle},
	}
	if res := vk.QueueSubmit(q.handle, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); res != vk.Success {
		q.free = append(q.free, fence)
		return resultErr(res, "submitting to graphics queue")
	}

	if err := q.pending.Enqueue(pendingSubmission{signal: signal, fence: fence}); err != nil {
		return fmt.Errorf("vulkan: %d submissions outstanding: %w", q.pending.Len(), err)
	}
	q.highest = signal
	return nil
}

// CompletedValue polls the pending fences oldest-first and retires every
// one that has signaled.
func (q *Queue) CompletedValue() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.pending.IsEmpty() {
		next, _ := q.pending.Peek()
		done, err := next.fence.Signaled(q.context)
		if err != nil || !done {
			break
		}
		q.retireLocked()
	}
	return q.completed
}

// WaitFor blocks until the submission tagged with target has retired.
func (q *Queue) WaitFor(target uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.completed < target {
		if q.pending.IsEmpty() {
			return fmt.Errorf("vulkan: wait for %d with nothing in flight (completed %d)", target, q.completed)
		}
		next, _ := q.pending.Peek()
		if _, err := next.fence.Wait(q.context, math.MaxUint64); err != nil {
			return err
		}
		if err := q.retireLocked(); err != nil {
			return err
		}
	}
	return nil
}

// Destroy waits for the queue to go idle and frees all fences.
func (q *Queue) Destroy() {
	vk.QueueWaitIdle(q.handle)

	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.pending.IsEmpty() {
		p, _ := q.pending.Dequeue()
		p.fence.Destroy(q.context)
	}
	for _, f := range q.free {
		f.Destroy(q.context)
	}
	q.free = nil
}

func (q *Queue) obtainFenceLocked() (*Fence, error) {
	if n := len(q.free); n > 0 {
		fence := q.free[n-1]
		q.free = q.free[:n-1]
		if err := fence.Reset(q.context); err != nil {
			return nil, err
		}
		return fence, nil
	}
	return NewFence(q.context, false)
}

func (q *Queue) retireLocked() error {
	p, err := q.pending.Dequeue()
	if err != nil {
		return err
	}
	q.completed = p.signal
	q.free = append(q.free, p.fence)
	return nil
}

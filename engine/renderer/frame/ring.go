package frame

import (
	"fmt"

	"github.com/emberengine/ember/engine/core"
)

// Ring owns the fixed circular sequence of frame slots. Advancing to the
// next slot blocks until the work that slot was last submitted with has
// retired, which bounds how far the CPU can run ahead of the GPU by the
// ring depth.
type Ring struct {
	device  Device
	counter *CompletionCounter
	slots   []*Slot
	current int
}

// NewRing allocates depth slots, each with its own recorder, an object
// region sized for objectCount records and a single-record pass region.
// Any allocation failure tears down what was built and is returned as an
// error; the caller cannot run without its frame resources.
func NewRing(device Device, depth, objectCount uint32) (*Ring, error) {
	if depth == 0 {
		return nil, fmt.Errorf("frame: ring depth must be at least 1")
	}
	r := &Ring{
		device:  device,
		counter: NewCompletionCounter(device.Queue()),
		current: -1,
	}
	for i := uint32(0); i < depth; i++ {
		rec, err := device.NewRecorder()
		if err != nil {
			r.releaseSlots()
			return nil, fmt.Errorf("frame: creating recorder for slot %d: %w", i, err)
		}
		objects, err := device.Arena().Allocate(ObjectConstantsSize, objectCount)
		if err != nil {
			r.releaseSlots()
			return nil, fmt.Errorf("frame: allocating object region for slot %d: %w", i, err)
		}
		pass, err := device.Arena().Allocate(PassConstantsSize, 1)
		if err != nil {
			objects.Release()
			r.releaseSlots()
			return nil, fmt.Errorf("frame: allocating pass region for slot %d: %w", i, err)
		}
		r.slots = append(r.slots, &Slot{
			index:    i,
			recorder: rec,
			objects:  objects,
			pass:     pass,
		})
	}
	return r, nil
}

func (r *Ring) Depth() uint32 {
	return uint32(len(r.slots))
}

func (r *Ring) Counter() *CompletionCounter {
	return r.counter
}

// Slot returns the slot at the given ring position.
func (r *Ring) Slot(i uint32) *Slot {
	return r.slots[i]
}

// Advance rotates to the next slot and blocks until the GPU has retired
// that slot's previous submission, then resets its recorder for reuse.
// Slots that were never submitted are ready immediately.
func (r *Ring) Advance() (*Slot, error) {
	r.current = (r.current + 1) % len(r.slots)
	s := r.slots[r.current]

	if err := r.counter.WaitFor(s.target); err != nil {
		return nil, fmt.Errorf("frame: waiting for slot %d (target %d): %w", s.index, s.target, err)
	}
	if err := s.recorder.Reset(); err != nil {
		return nil, fmt.Errorf("frame: resetting recorder of slot %d: %w", s.index, err)
	}
	if err := s.recorder.Begin(); err != nil {
		return nil, fmt.Errorf("frame: beginning recorder of slot %d: %w", s.index, err)
	}
	s.state = SlotInUse
	return s, nil
}

// Submit ends the slot's recording, tags it with the next completion value
// and hands it to the queue. The slot cannot be reused until the queue
// signals that value.
func (r *Ring) Submit(s *Slot) error {
	if s.state != SlotInUse {
		return fmt.Errorf("frame: submit of slot %d in state %s", s.index, s.state)
	}
	if err := s.recorder.End(); err != nil {
		return fmt.Errorf("frame: ending recorder of slot %d: %w", s.index, err)
	}
	target := r.counter.Advance()
	if err := r.device.Queue().Submit(s.recorder, target); err != nil {
		return fmt.Errorf("frame: submitting slot %d: %w", s.index, err)
	}
	s.recorder.UpdateSubmitted()
	s.target = target
	s.state = SlotAwaitingGPU
	return nil
}

// Drain blocks until every slot's outstanding work has retired. Call it
// before touching resources that in-flight frames may still reference.
func (r *Ring) Drain() error {
	for _, s := range r.slots {
		if err := r.counter.WaitFor(s.target); err != nil {
			return fmt.Errorf("frame: draining slot %d (target %d): %w", s.index, s.target, err)
		}
		if s.state == SlotAwaitingGPU {
			s.state = SlotFree
		}
	}
	return nil
}

// Release drains the ring and frees every slot's constant regions.
func (r *Ring) Release() error {
	if err := r.Drain(); err != nil {
		return err
	}
	r.releaseSlots()
	core.LogDebug("frame ring released")
	return nil
}

func (r *Ring) releaseSlots() {
	for _, s := range r.slots {
		s.release()
	}
	r.slots = nil
}

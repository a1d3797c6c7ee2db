package frame

// SlotState tracks whether a slot's resources may be touched by the CPU.
type SlotState int

const (
	// SlotFree means no work from this slot is pending anywhere.
	SlotFree SlotState = iota
	// SlotInUse means the CPU is currently recording into the slot.
	SlotInUse
	// SlotAwaitingGPU means the slot's work is submitted and not yet retired.
	SlotAwaitingGPU
)

func (s SlotState) String() string {
	switch s {
	case SlotFree:
		return "free"
	case SlotInUse:
		return "in-use"
	case SlotAwaitingGPU:
		return "awaiting-gpu"
	}
	return "unknown"
}

// Slot is one rotating bundle of per-frame resources: a command recorder,
// the object constant region, the pass constant region, and the completion
// target its last submission was tagged with.
type Slot struct {
	index    uint32
	recorder Recorder
	objects  Region
	pass     Region
	target   uint64
	state    SlotState
}

func (s *Slot) Index() uint32 {
	return s.index
}

func (s *Slot) Recorder() Recorder {
	return s.recorder
}

// Objects exposes the slot's per-object constant region.
func (s *Slot) Objects() Region {
	return s.objects
}

// Pass exposes the slot's pass constant region.
func (s *Slot) Pass() Region {
	return s.pass
}

// Target is the completion value the slot's last submission signals, or
// zero if the slot has never been submitted.
func (s *Slot) Target() uint64 {
	return s.target
}

func (s *Slot) State() SlotState {
	return s.state
}

func (s *Slot) release() {
	if s.objects != nil {
		s.objects.Release()
		s.objects = nil
	}
	if s.pass != nil {
		s.pass.Release()
		s.pass = nil
	}
}

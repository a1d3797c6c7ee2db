package frame

import "fmt"

// Layout maps (slot, object) pairs to flat binding indices in a single
// contiguous index space. Object records come first, grouped by slot; the
// per-slot pass records follow after all object records:
//
//	slot 0 objects | slot 1 objects | ... | slot N-1 objects | N pass records
//
// Indices for the same object in consecutive slots are exactly ObjectCount
// apart. Out-of-range arguments are programming errors and panic.
type Layout struct {
	objectCount uint32
	ringDepth   uint32
}

func NewLayout(objectCount, ringDepth uint32) Layout {
	if ringDepth == 0 {
		panic("frame: layout requires a ring depth of at least 1")
	}
	return Layout{objectCount: objectCount, ringDepth: ringDepth}
}

func (l Layout) ObjectCount() uint32 {
	return l.objectCount
}

func (l Layout) RingDepth() uint32 {
	return l.ringDepth
}

// ObjectIndex returns the binding index of the object's record in the
// given slot.
func (l Layout) ObjectIndex(slot, object uint32) uint32 {
	if slot >= l.ringDepth {
		panic(fmt.Sprintf("frame: slot %d out of range, ring depth is %d", slot, l.ringDepth))
	}
	if object >= l.objectCount {
		panic(fmt.Sprintf("frame: object %d out of range, layout holds %d objects", object, l.objectCount))
	}
	return slot*l.objectCount + object
}

// PassIndex returns the binding index of the slot's pass record.
func (l Layout) PassIndex(slot uint32) uint32 {
	if slot >= l.ringDepth {
		panic(fmt.Sprintf("frame: slot %d out of range, ring depth is %d", slot, l.ringDepth))
	}
	return l.objectCount*l.ringDepth + slot
}

// TotalCount is the size of the whole binding index space.
func (l Layout) TotalCount() uint32 {
	return l.objectCount*l.ringDepth + l.ringDepth
}

package frame

import (
	"fmt"

	"github.com/emberengine/ember/engine/math"
)

// Table owns the render items and their staleness counters, and writes
// stale transforms into a slot's object region once per frame.
type Table struct {
	items     []*RenderItem
	ringDepth uint32
}

// NewTable wires the items to a ring of the given depth. Every item starts
// fully stale so its constants reach all slots during the first rotation.
// Items must be ordered by ObjectIndex with no gaps.
func NewTable(items []*RenderItem, ringDepth uint32) (*Table, error) {
	if ringDepth == 0 {
		return nil, fmt.Errorf("frame: table requires a ring depth of at least 1")
	}
	for i, it := range items {
		if it.ObjectIndex != uint32(i) {
			return nil, fmt.Errorf("frame: item %s at position %d has object index %d", it.ID, i, it.ObjectIndex)
		}
		it.framesStale = ringDepth
	}
	return &Table{items: items, ringDepth: ringDepth}, nil
}

func (t *Table) Len() int {
	return len(t.items)
}

func (t *Table) Items() []*RenderItem {
	return t.items
}

// Item returns the render item at the given object index.
func (t *Table) Item(object uint32) *RenderItem {
	if int(object) >= len(t.items) {
		panic(fmt.Sprintf("frame: object %d out of range, table holds %d items", object, len(t.items)))
	}
	return t.items[object]
}

// MarkDirty resets the item's staleness counter to the ring depth so the
// current transform propagates into every slot. Re-marking while a previous
// change is still propagating restarts the countdown; the counter never
// exceeds the ring depth.
func (t *Table) MarkDirty(object uint32) {
	t.Item(object).framesStale = t.ringDepth
}

// SetWorld stores a new transform and marks the item dirty.
func (t *Table) SetWorld(object uint32, world math.Mat4) {
	it := t.Item(object)
	it.World = world
	it.framesStale = t.ringDepth
}

// Staleness reports the item's remaining propagation count.
func (t *Table) Staleness(object uint32) uint32 {
	return t.Item(object).framesStale
}

// CommitFrame writes every stale item's transform into the slot's object
// region, transposed to the order the GPU consumes, and decrements each
// written item's counter by exactly one. Clean items are skipped entirely.
func (t *Table) CommitFrame(slot *Slot) error {
	for _, it := range t.items {
		if it.framesStale == 0 {
			continue
		}
		oc := ObjectConstants{World: math.NewMat4Transposed(it.World)}
		if err := slot.objects.WriteAt(it.ObjectIndex, oc.Bytes()); err != nil {
			return fmt.Errorf("frame: committing object %d to slot %d: %w", it.ObjectIndex, slot.index, err)
		}
		it.framesStale--
	}
	return nil
}

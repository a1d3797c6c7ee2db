package renderer

import (
	"fmt"

	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/math"
	"github.com/emberengine/ember/engine/renderer/frame"
)

// Renderer drives the frame-resource ring against a device backend. One
// Renderer owns one ring, the per-object constant table and the binding
// layout; it is not safe for concurrent use.
type Renderer struct {
	device frame.Device
	ring   *frame.Ring
	table  *frame.Table
	layout frame.Layout
	depth  uint32
}

// New builds a renderer with ringDepth frame slots over the given items.
func New(device frame.Device, ringDepth uint32, items []*frame.RenderItem) (*Renderer, error) {
	table, err := frame.NewTable(items, ringDepth)
	if err != nil {
		return nil, err
	}
	ring, err := frame.NewRing(device, ringDepth, uint32(len(items)))
	if err != nil {
		return nil, err
	}
	core.LogInfo("renderer ready: %d frame slots, %d render items", ringDepth, len(items))
	return &Renderer{
		device: device,
		ring:   ring,
		table:  table,
		layout: frame.NewLayout(uint32(len(items)), ringDepth),
		depth:  ringDepth,
	}, nil
}

func (r *Renderer) RingDepth() uint32 {
	return r.depth
}

func (r *Renderer) Layout() frame.Layout {
	return r.layout
}

func (r *Renderer) Table() *frame.Table {
	return r.table
}

// AdvanceFrame rotates to the next frame slot, blocking until the GPU has
// retired that slot's previous work.
func (r *Renderer) AdvanceFrame() (*frame.Slot, error) {
	return r.ring.Advance()
}

// UpdateObject stores a new world transform for the item and marks it
// stale, so the change reaches every frame slot over the next rotations.
func (r *Renderer) UpdateObject(object uint32, world math.Mat4) {
	r.table.SetWorld(object, world)
}

// CommitObjects writes all stale transforms into the slot's object region.
// Call once per frame, after updates and before drawing.
func (r *Renderer) CommitObjects(slot *frame.Slot) error {
	return r.table.CommitFrame(slot)
}

// UpdatePass recomputes and writes the slot's per-frame constants.
func (r *Renderer) UpdatePass(slot *frame.Slot, in frame.PassInput) error {
	return frame.UpdatePass(slot, in)
}

// BindPass records the pass-record binding for the slot's draws.
func (r *Renderer) BindPass(slot *frame.Slot) {
	slot.Recorder().BindPassData(r.layout.PassIndex(slot.Index()))
}

// DrawItem records the object binding and the indexed draw for one item.
func (r *Renderer) DrawItem(slot *frame.Slot, object uint32) {
	item := r.table.Item(object)
	rec := slot.Recorder()
	rec.BindObjectData(r.layout.ObjectIndex(slot.Index(), object))
	g := item.Geometry
	rec.DrawIndexed(g.IndexCount, g.StartIndex, g.BaseVertex)
}

// DrawAll records every item in table order.
func (r *Renderer) DrawAll(slot *frame.Slot) {
	for i := 0; i < r.table.Len(); i++ {
		r.DrawItem(slot, uint32(i))
	}
}

// SubmitFrame closes the slot's recording and hands it to the queue.
func (r *Renderer) SubmitFrame(slot *frame.Slot) error {
	return r.ring.Submit(slot)
}

// Rebuild replaces the render item set. The item count determines region
// sizes and binding indices, so the whole ring is drained and reallocated;
// never call this with a frame in flight being recorded.
func (r *Renderer) Rebuild(items []*frame.RenderItem) error {
	if err := r.ring.Release(); err != nil {
		return fmt.Errorf("renderer: rebuild drain: %w", err)
	}
	table, err := frame.NewTable(items, r.depth)
	if err != nil {
		return err
	}
	ring, err := frame.NewRing(r.device, r.depth, uint32(len(items)))
	if err != nil {
		return err
	}
	r.table = table
	r.ring = ring
	r.layout = frame.NewLayout(uint32(len(items)), r.depth)
	core.LogInfo("renderer rebuilt for %d render items", len(items))
	return nil
}

// Shutdown drains all in-flight frames and frees the slot resources.
func (r *Renderer) Shutdown() error {
	core.LogInfo("renderer shutting down, draining in-flight frames")
	return r.ring.Release()
}

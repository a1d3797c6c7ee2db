package scene

import (
	"github.com/emberengine/ember/engine/math"
	"github.com/emberengine/ember/engine/renderer/frame"
)

// Scene owns the render items. Object indices are assigned densely in
// insertion order and stay stable for the item's lifetime. Structural
// changes bump the generation so the frame loop can rebuild its per-object
// tables between frames.
type Scene struct {
	registry   *Registry
	items      []*frame.RenderItem
	generation uint64
}

func New(registry *Registry) *Scene {
	return &Scene{registry: registry}
}

func (s *Scene) Registry() *Registry {
	return s.registry
}

// Add creates a render item drawing the given geometry and returns its
// object index.
func (s *Scene) Add(tag string, geometry GeometryID, world math.Mat4) uint32 {
	index := uint32(len(s.items))
	item := frame.NewRenderItem(tag, index, s.registry.Range(geometry), world)
	s.items = append(s.items, item)
	s.generation++
	return index
}

// AddNamed is Add with a name lookup; it fails on unknown geometry instead
// of panicking, for callers driven by data rather than code.
func (s *Scene) AddNamed(tag, geometryName string, world math.Mat4) (uint32, bool) {
	id, ok := s.registry.Lookup(geometryName)
	if !ok {
		return 0, false
	}
	return s.Add(tag, id, world), true
}

func (s *Scene) Items() []*frame.RenderItem {
	return s.items
}

func (s *Scene) Len() int {
	return len(s.items)
}

// Generation increments on every structural change.
func (s *Scene) Generation() uint64 {
	return s.generation
}

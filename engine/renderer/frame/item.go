package frame

import (
	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/math"
)

// RenderItem is one drawable instance: a world transform plus the geometry
// range it draws. ObjectIndex is the item's stable position in the
// per-object constant table and never changes during the item's life.
type RenderItem struct {
	ID          core.Identifier
	World       math.Mat4
	Geometry    GeometryRange
	ObjectIndex uint32

	// framesStale counts how many ring slots still hold constants from
	// before the last transform change.
	framesStale uint32
}

func NewRenderItem(tag string, objectIndex uint32, geometry GeometryRange, world math.Mat4) *RenderItem {
	return &RenderItem{
		ID:          core.NewIdentifier(tag),
		World:       world,
		Geometry:    geometry,
		ObjectIndex: objectIndex,
	}
}

// Staleness reports how many more frames the item's constants must be
// rewritten before every slot has caught up.
func (ri *RenderItem) Staleness() uint32 {
	return ri.framesStale
}

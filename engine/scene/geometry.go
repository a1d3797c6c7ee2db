package scene

import (
	"fmt"

	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/renderer/frame"
)

// GeometryID is a dense index into the registry. Names are resolved to IDs
// once while building a scene; per-frame code only ever works with IDs.
type GeometryID uint32

// Registry owns the named geometry ranges of the shared vertex and index
// buffers. Registration happens up front, before any frame runs.
type Registry struct {
	ids    map[string]GeometryID
	names  []string
	ranges []frame.GeometryRange
}

func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[string]GeometryID),
	}
}

// Register adds a named range and returns its ID. Names must be unique
// and non-empty.
func (r *Registry) Register(name string, rng frame.GeometryRange) (GeometryID, error) {
	if name == "" {
		return 0, fmt.Errorf("scene: geometry with an empty name")
	}
	if _, exists := r.ids[name]; exists {
		return 0, fmt.Errorf("scene: geometry %q registered twice", name)
	}
	id := GeometryID(len(r.ranges))
	r.ids[name] = id
	r.names = append(r.names, name)
	r.ranges = append(r.ranges, rng)
	core.LogDebug("registered geometry %q: %d indices from %d, base vertex %d",
		name, rng.IndexCount, rng.StartIndex, rng.BaseVertex)
	return id, nil
}

// Lookup resolves a name to its ID.
func (r *Registry) Lookup(name string) (GeometryID, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Range returns the geometry range behind an ID. Unknown IDs are a
// programming error and panic.
func (r *Registry) Range(id GeometryID) frame.GeometryRange {
	if int(id) >= len(r.ranges) {
		panic(fmt.Sprintf("scene: geometry id %d out of range, registry holds %d", id, len(r.ranges)))
	}
	return r.ranges[id]
}

// Name returns the name an ID was registered under.
func (r *Registry) Name(id GeometryID) string {
	if int(id) >= len(r.names) {
		panic(fmt.Sprintf("scene: geometry id %d out of range, registry holds %d", id, len(r.names)))
	}
	return r.names[id]
}

func (r *Registry) Len() int {
	return len(r.ranges)
}

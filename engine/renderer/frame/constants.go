package frame

import (
	"unsafe"

	"github.com/emberengine/ember/engine/math"
)

// ObjectConstants is the per-object constant record as the GPU reads it.
// The world transform is stored transposed.
type ObjectConstants struct {
	World math.Mat4
}

// PassConstants is the per-frame constant record: camera matrices with
// their inverses, viewport data and timing. All matrices are stored
// transposed.
type PassConstants struct {
	View                math.Mat4
	InvView             math.Mat4
	Proj                math.Mat4
	InvProj             math.Mat4
	ViewProj            math.Mat4
	InvViewProj         math.Mat4
	EyePos              math.Vec3
	Pad0                float32
	RenderTargetSize    math.Vec2
	InvRenderTargetSize math.Vec2
	NearZ               float32
	FarZ                float32
	TotalTime           float32
	DeltaTime           float32
}

var (
	ObjectConstantsSize = uint32(unsafe.Sizeof(ObjectConstants{}))
	PassConstantsSize   = uint32(unsafe.Sizeof(PassConstants{}))
)

// Bytes returns the record's raw memory, valid while oc is alive.
func (oc *ObjectConstants) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(oc)), ObjectConstantsSize)
}

// Bytes returns the record's raw memory, valid while pc is alive.
func (pc *PassConstants) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(pc)), PassConstantsSize)
}

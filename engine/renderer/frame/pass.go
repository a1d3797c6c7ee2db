package frame

import (
	"fmt"

	"github.com/emberengine/ember/engine/math"
)

// PassInput carries the camera and timing state a frame's pass record is
// derived from.
type PassInput struct {
	View           math.Mat4
	Proj           math.Mat4
	EyePos         math.Vec3
	ViewportWidth  float32
	ViewportHeight float32
	NearZ          float32
	FarZ           float32
	TotalTime      float32
	DeltaTime      float32
}

// UpdatePass recomputes the derived pass matrices and writes the slot's
// pass record. It runs unconditionally every frame; there is no staleness
// tracking for pass data. View and Proj must be invertible — the camera
// produces them, so a singular input is a programming error upstream and
// is reported rather than silently written.
func UpdatePass(slot *Slot, in PassInput) error {
	if d := in.View.Determinant(); d == 0 {
		return fmt.Errorf("frame: view matrix for slot %d is singular", slot.index)
	}
	if d := in.Proj.Determinant(); d == 0 {
		return fmt.Errorf("frame: projection matrix for slot %d is singular", slot.index)
	}

	viewProj := in.View.Mul(in.Proj)
	pc := PassConstants{
		View:                math.NewMat4Transposed(in.View),
		InvView:             math.NewMat4Transposed(in.View.Inverse()),
		Proj:                math.NewMat4Transposed(in.Proj),
		InvProj:             math.NewMat4Transposed(in.Proj.Inverse()),
		ViewProj:            math.NewMat4Transposed(viewProj),
		InvViewProj:         math.NewMat4Transposed(viewProj.Inverse()),
		EyePos:              in.EyePos,
		RenderTargetSize:    math.NewVec2(in.ViewportWidth, in.ViewportHeight),
		InvRenderTargetSize: math.NewVec2(1.0/in.ViewportWidth, 1.0/in.ViewportHeight),
		NearZ:               in.NearZ,
		FarZ:                in.FarZ,
		TotalTime:           in.TotalTime,
		DeltaTime:           in.DeltaTime,
	}
	if err := slot.pass.WriteAt(0, pc.Bytes()); err != nil {
		return fmt.Errorf("frame: writing pass record of slot %d: %w", slot.index, err)
	}
	return nil
}

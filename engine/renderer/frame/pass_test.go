package frame_test

import (
	"testing"
	"unsafe"

	"github.com/emberengine/ember/engine/math"
	"github.com/emberengine/ember/engine/renderer/frame"
	"github.com/emberengine/ember/engine/renderer/headless"
)

func storedPass(t *testing.T, slot *frame.Slot) *frame.PassConstants {
	t.Helper()
	region := slot.Pass().(*headless.Region)
	b := region.Bytes(0)
	return (*frame.PassConstants)(unsafe.Pointer(&b[0]))
}

func testPassInput() frame.PassInput {
	eye := math.NewVec3(0, 0, 10)
	return frame.PassInput{
		View:           math.NewMat4LookAt(eye, math.NewVec3Zero(), math.NewVec3Up()),
		Proj:           math.NewMat4Perspective(math.DegToRad(90), 1280.0/720.0, 1.0, 1000.0),
		EyePos:         eye,
		ViewportWidth:  1280,
		ViewportHeight: 720,
		NearZ:          1.0,
		FarZ:           1000.0,
		TotalTime:      12.5,
		DeltaTime:      0.016,
	}
}

func TestUpdatePassDerivedMatrices(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	slot, err := ring.Advance()
	if err != nil {
		t.Fatal(err)
	}

	in := testPassInput()
	if err := frame.UpdatePass(slot, in); err != nil {
		t.Fatal(err)
	}
	pc := storedPass(t, slot)

	// Records are stored transposed; undo that to compare.
	view := math.NewMat4Transposed(pc.View)
	invView := math.NewMat4Transposed(pc.InvView)
	proj := math.NewMat4Transposed(pc.Proj)
	invProj := math.NewMat4Transposed(pc.InvProj)
	viewProj := math.NewMat4Transposed(pc.ViewProj)
	invViewProj := math.NewMat4Transposed(pc.InvViewProj)

	if !view.Compare(in.View, tolerance) {
		t.Errorf("stored view = %v, want input view", view.Data)
	}
	if want := in.View.Mul(in.Proj); !viewProj.Compare(want, tolerance) {
		t.Errorf("stored viewProj = %v, want view*proj", viewProj.Data)
	}

	// Every inverse must actually invert its matrix.
	id := math.NewMat4Identity()
	pairs := []struct {
		name   string
		m, inv math.Mat4
	}{
		{"view", view, invView},
		{"proj", proj, invProj},
		{"viewProj", viewProj, invViewProj},
	}
	for _, p := range pairs {
		if got := p.m.Mul(p.inv); !got.Compare(id, 1e-3) {
			t.Errorf("%s * inv(%s) = %v, want identity", p.name, p.name, got.Data)
		}
	}
}

func TestUpdatePassScalars(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	slot, err := ring.Advance()
	if err != nil {
		t.Fatal(err)
	}

	in := testPassInput()
	if err := frame.UpdatePass(slot, in); err != nil {
		t.Fatal(err)
	}
	pc := storedPass(t, slot)

	if !pc.EyePos.Compare(in.EyePos, tolerance) {
		t.Errorf("EyePos = %v, want %v", pc.EyePos, in.EyePos)
	}
	if !pc.RenderTargetSize.Compare(math.NewVec2(1280, 720), tolerance) {
		t.Errorf("RenderTargetSize = %v", pc.RenderTargetSize)
	}
	if !pc.InvRenderTargetSize.Compare(math.NewVec2(1.0/1280, 1.0/720), tolerance) {
		t.Errorf("InvRenderTargetSize = %v", pc.InvRenderTargetSize)
	}
	if pc.NearZ != 1.0 || pc.FarZ != 1000.0 {
		t.Errorf("clip planes = %f, %f; want 1, 1000", pc.NearZ, pc.FarZ)
	}
	if pc.TotalTime != 12.5 || pc.DeltaTime != 0.016 {
		t.Errorf("timing = %f, %f; want 12.5, 0.016", pc.TotalTime, pc.DeltaTime)
	}
}

func TestUpdatePassRunsEveryFrame(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	in := testPassInput()
	for i := 0; i < 4; i++ {
		slot, err := ring.Advance()
		if err != nil {
			t.Fatal(err)
		}
		in.TotalTime = float32(i)
		if err := frame.UpdatePass(slot, in); err != nil {
			t.Fatal(err)
		}
		if got := storedPass(t, slot).TotalTime; got != float32(i) {
			t.Errorf("frame %d: stored TotalTime = %f, want %d", i, got, i)
		}
		if err := ring.Submit(slot); err != nil {
			t.Fatal(err)
		}
	}
}

func TestUpdatePassRejectsSingularMatrices(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	slot, err := ring.Advance()
	if err != nil {
		t.Fatal(err)
	}

	in := testPassInput()
	in.View = math.Mat4{}
	if err := frame.UpdatePass(slot, in); err == nil {
		t.Error("singular view matrix accepted")
	}
}

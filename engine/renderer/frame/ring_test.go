package frame_test

import (
	"testing"
	"time"

	"github.com/emberengine/ember/engine/renderer/frame"
	"github.com/emberengine/ember/engine/renderer/headless"
)

func advanceAndSubmit(t *testing.T, ring *frame.Ring) *frame.Slot {
	t.Helper()
	slot, err := ring.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if err := ring.Submit(slot); err != nil {
		t.Fatal(err)
	}
	return slot
}

func TestRingRotatesThroughAllSlots(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(2))
	ring, err := frame.NewRing(device, 3, 4)
	if err != nil {
		t.Fatal(err)
	}

	var order []uint32
	for i := 0; i < 7; i++ {
		order = append(order, advanceAndSubmit(t, ring).Index())
	}
	want := []uint32{0, 1, 2, 0, 1, 2, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("rotation order %v, want %v", order, want)
		}
	}
}

func TestRingAssignsIncreasingTargets(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(2))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	prev := uint64(0)
	for i := 0; i < 5; i++ {
		slot := advanceAndSubmit(t, ring)
		if slot.Target() <= prev {
			t.Fatalf("submission %d got target %d after %d, want strictly increasing", i, slot.Target(), prev)
		}
		prev = slot.Target()
	}
}

func TestRingReusesSlotWithFreshRecorder(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	first, err := ring.Advance()
	if err != nil {
		t.Fatal(err)
	}
	first.Recorder().DrawIndexed(36, 0, 0)
	if err := ring.Submit(first); err != nil {
		t.Fatal(err)
	}
	advanceAndSubmit(t, ring)

	// Back to slot 0: its recorder must be recycled and empty.
	again, err := ring.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if again.Index() != first.Index() {
		t.Fatalf("expected to return to slot %d, got %d", first.Index(), again.Index())
	}
	rec := again.Recorder().(*headless.Recorder)
	if len(rec.Commands()) != 0 {
		t.Errorf("recycled recorder still holds %d commands", len(rec.Commands()))
	}
	if rec.ResetCount() == 0 {
		t.Error("recorder was never reset")
	}
}

// TestRingBlocksWhenGPUFallsBehind drives the ring against a queue that
// signals nothing on its own. With every slot in flight the next Advance
// must block until a submission retires.
func TestRingBlocksWhenGPUFallsBehind(t *testing.T) {
	const depth = 2
	device := headless.NewDevice(headless.WithManualRetire())
	ring, err := frame.NewRing(device, depth, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < depth; i++ {
		advanceAndSubmit(t, ring)
	}

	unblocked := make(chan error, 1)
	go func() {
		_, err := ring.Advance()
		unblocked <- err
	}()

	select {
	case err := <-unblocked:
		t.Fatalf("Advance returned (%v) with the whole ring in flight", err)
	case <-time.After(50 * time.Millisecond):
	}

	if err := device.GPU.RetireNext(); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-unblocked:
		if err != nil {
			t.Fatalf("Advance after retire: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Advance still blocked after the oldest submission retired")
	}
}

func TestRingDrainWaitsForAllSlots(t *testing.T) {
	device := headless.NewDevice(headless.WithManualRetire())
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	first := advanceAndSubmit(t, ring)
	second := advanceAndSubmit(t, ring)

	drained := make(chan error, 1)
	go func() {
		drained <- ring.Drain()
	}()

	select {
	case err := <-drained:
		t.Fatalf("Drain returned (%v) with work in flight", err)
	case <-time.After(50 * time.Millisecond):
	}

	device.GPU.RetireAll()
	select {
	case err := <-drained:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Drain still blocked after all work retired")
	}

	if first.State() != frame.SlotFree || second.State() != frame.SlotFree {
		t.Errorf("slot states after drain: %s, %s; want free", first.State(), second.State())
	}
}

func TestRingReleaseFreesRegions(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Each slot holds one object region and one pass region.
	if got := device.Memory.LiveRegions(); got != 6 {
		t.Fatalf("LiveRegions = %d after ring creation, want 6", got)
	}
	advanceAndSubmit(t, ring)
	if err := ring.Release(); err != nil {
		t.Fatal(err)
	}
	if got := device.Memory.LiveRegions(); got != 0 {
		t.Errorf("LiveRegions = %d after release, want 0", got)
	}
}

// TestRingRebuiltOverLiveQueueContinuesSignals releases a ring and builds
// a fresh one over the same device; the queue keeps its monotonic
// watermark, so the new ring's submissions must continue the sequence, not
// restart it.
func TestRingRebuiltOverLiveQueueContinuesSignals(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	var last uint64
	for i := 0; i < 3; i++ {
		last = advanceAndSubmit(t, ring).Target()
	}
	if err := ring.Release(); err != nil {
		t.Fatal(err)
	}

	rebuilt, err := frame.NewRing(device, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	slot := advanceAndSubmit(t, rebuilt)
	if slot.Target() <= last {
		t.Fatalf("rebuilt ring issued target %d after %d, want strictly increasing", slot.Target(), last)
	}
}

func TestRingSubmitRequiresActiveSlot(t *testing.T) {
	device := headless.NewDevice(headless.WithPipelineDepth(1))
	ring, err := frame.NewRing(device, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	slot := advanceAndSubmit(t, ring)
	if err := ring.Submit(slot); err == nil {
		t.Error("double submit of the same slot accepted")
	}
}

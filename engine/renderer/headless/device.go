package headless

import (
	"github.com/emberengine/ember/engine/renderer/frame"
)

// Device bundles the in-memory queue and arena into a frame.Device. It
// backs both automated tests and running the engine without a GPU.
type Device struct {
	GPU    *Queue
	Memory *Arena
}

func NewDevice(opts ...QueueOption) *Device {
	return &Device{
		GPU:    NewQueue(opts...),
		Memory: NewArena(),
	}
}

func (d *Device) Queue() frame.Queue {
	return d.GPU
}

func (d *Device) Arena() frame.Arena {
	return d.Memory
}

func (d *Device) NewRecorder() (frame.Recorder, error) {
	return NewRecorder(), nil
}

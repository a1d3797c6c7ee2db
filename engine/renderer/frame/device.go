package frame

// RecorderState tracks where a command recording is in its lifecycle.
type RecorderState int

const (
	RecorderReady RecorderState = iota
	RecorderRecording
	RecorderRecordingEnded
	RecorderSubmitted
)

func (s RecorderState) String() string {
	switch s {
	case RecorderReady:
		return "ready"
	case RecorderRecording:
		return "recording"
	case RecorderRecordingEnded:
		return "recording-ended"
	case RecorderSubmitted:
		return "submitted"
	}
	return "unknown"
}

// GeometryRange identifies a contiguous piece of the shared vertex and
// index buffers.
type GeometryRange struct {
	IndexCount uint32
	StartIndex uint32
	BaseVertex int32
}

// Queue is the execution stream work is submitted to. Completion is
// observed through a monotonically increasing counter value: a submission
// tagged with signal value v has retired once CompletedValue() >= v.
type Queue interface {
	// Submit hands a finished recording to the queue. The queue signals
	// the given value when the work has fully retired. Signal values must
	// be strictly increasing across submissions.
	Submit(rec Recorder, signal uint64) error
	// CompletedValue returns the highest signal value the queue has
	// retired so far.
	CompletedValue() uint64
	// WaitFor blocks until CompletedValue() >= target.
	WaitFor(target uint64) error
}

// Recorder records the commands of one frame. The lifecycle is
// Reset -> Begin -> record -> End -> submit, mirrored by State.
type Recorder interface {
	Reset() error
	Begin() error
	End() error
	// UpdateSubmitted marks the recording as owned by the queue.
	UpdateSubmitted()
	State() RecorderState

	// BindObjectData selects which per-object constant record the
	// following draws read.
	BindObjectData(index uint32)
	// BindPassData selects the per-frame constant record.
	BindPassData(index uint32)
	DrawIndexed(indexCount, startIndex uint32, baseVertex int32)
}

// Region is a CPU-writable span of constant records. Writes land in
// element-sized cells spaced Stride() bytes apart, so no two elements
// ever alias.
type Region interface {
	WriteAt(element uint32, data []byte) error
	Stride() uint32
	Release()
}

// Arena allocates constant regions.
type Arena interface {
	Allocate(elementSize, elementCount uint32) (Region, error)
}

// Device aggregates the backend collaborators the frame ring drives.
type Device interface {
	Queue() Queue
	Arena() Arena
	NewRecorder() (Recorder, error)
}

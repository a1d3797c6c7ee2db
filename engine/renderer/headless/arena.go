package headless

import (
	"fmt"
	"sync"

	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/renderer/frame"
)

// constantAlignment mirrors the 256-byte alignment GPUs require between
// individually bindable constant records.
const constantAlignment = 256

// Arena hands out byte-slice backed constant regions and tracks how many
// are still live, so tests can assert that teardown released everything.
type Arena struct {
	mu          sync.Mutex
	liveRegions int
}

func NewArena() *Arena {
	return &Arena{}
}

// Allocate returns a region of elementCount records, each padded out to the
// constant alignment.
func (a *Arena) Allocate(elementSize, elementCount uint32) (frame.Region, error) {
	if elementSize == 0 || elementCount == 0 {
		return nil, fmt.Errorf("headless: allocation of %d records of %d bytes", elementCount, elementSize)
	}
	stride := alignUp(elementSize, constantAlignment)

	a.mu.Lock()
	a.liveRegions++
	a.mu.Unlock()

	return &Region{
		arena:    a,
		elemSize: elementSize,
		stride:   stride,
		count:    elementCount,
		data:     make([]byte, stride*elementCount),
	}, nil
}

// LiveRegions reports how many allocated regions have not been released.
func (a *Arena) LiveRegions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.liveRegions
}

func (a *Arena) regionReleased() {
	a.mu.Lock()
	a.liveRegions--
	a.mu.Unlock()
}

func alignUp(value, alignment uint32) uint32 {
	return (value + alignment - 1) &^ (alignment - 1)
}

// Region is a span of constant records in plain memory. Records occupy
// non-overlapping stride-spaced cells.
type Region struct {
	arena    *Arena
	elemSize uint32
	stride   uint32
	count    uint32
	data     []byte
	released bool
}

func (r *Region) WriteAt(element uint32, data []byte) error {
	if r.released {
		return core.ErrRegionReleased
	}
	if element >= r.count {
		return fmt.Errorf("headless: element %d out of range, region holds %d", element, r.count)
	}
	if uint32(len(data)) > r.elemSize {
		return fmt.Errorf("headless: write of %d bytes into %d-byte records", len(data), r.elemSize)
	}
	copy(r.data[element*r.stride:], data)
	return nil
}

func (r *Region) Stride() uint32 {
	return r.stride
}

// Bytes returns the stored record at the given element. Test accessor.
func (r *Region) Bytes(element uint32) []byte {
	if element >= r.count {
		panic(fmt.Sprintf("headless: element %d out of range, region holds %d", element, r.count))
	}
	off := element * r.stride
	return r.data[off : off+r.elemSize]
}

func (r *Region) Release() {
	if r.released {
		return
	}
	r.released = true
	r.arena.regionReleased()
}

package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/renderer/frame"
)

// Arena allocates persistently mapped, host-visible uniform buffers. Each
// region is one buffer holding elementCount records spaced by the device's
// uniform alignment, so records can be bound individually via dynamic
// offsets and never alias.
type Arena struct {
	context *Context
}

func NewArena(context *Context) *Arena {
	return &Arena{context: context}
}

func (a *Arena) Allocate(elementSize, elementCount uint32) (frame.Region, error) {
	if elementSize == 0 || elementCount == 0 {
		return nil, fmt.Errorf("vulkan: allocation of %d records of %d bytes", elementCount, elementSize)
	}
	device := a.context.Device
	stride := alignUp(elementSize, device.MinUniformAlignment())
	size := vk.DeviceSize(stride) * vk.DeviceSize(elementCount)

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if res := vk.CreateBuffer(device.LogicalDevice, &bufferInfo, a.context.Allocator, &buffer); res != vk.Success {
		return nil, resultErr(res, "creating constant buffer")
	}

	var memReq vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device.LogicalDevice, buffer, &memReq)
	memReq.Deref()

	memoryType := a.context.FindMemoryIndex(
		memReq.MemoryTypeBits,
		uint32(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
	)
	if memoryType < 0 {
		vk.DestroyBuffer(device.LogicalDevice, buffer, a.context.Allocator)
		return nil, fmt.Errorf("vulkan: no host-visible memory type for constant buffer: %w", core.ErrOutOfDeviceMemory)
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReq.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(device.LogicalDevice, &allocInfo, a.context.Allocator, &memory); res != vk.Success {
		vk.DestroyBuffer(device.LogicalDevice, buffer, a.context.Allocator)
		return nil, resultErr(res, "allocating constant buffer memory")
	}
	if res := vk.BindBufferMemory(device.LogicalDevice, buffer, memory, 0); res != vk.Success {
		vk.FreeMemory(device.LogicalDevice, memory, a.context.Allocator)
		vk.DestroyBuffer(device.LogicalDevice, buffer, a.context.Allocator)
		return nil, resultErr(res, "binding constant buffer memory")
	}

	// Map once for the region's whole life; host-coherent memory needs no
	// flushing.
	var data unsafe.Pointer
	if res := vk.MapMemory(device.LogicalDevice, memory, 0, size, 0, &data); res != vk.Success {
		vk.FreeMemory(device.LogicalDevice, memory, a.context.Allocator)
		vk.DestroyBuffer(device.LogicalDevice, buffer, a.context.Allocator)
		return nil, resultErr(res, "mapping constant buffer")
	}

	return &Region{
		context:  a.context,
		buffer:   buffer,
		memory:   memory,
		mapped:   unsafe.Slice((*byte)(data), int(size)),
		elemSize: elementSize,
		stride:   stride,
		count:    elementCount,
	}, nil
}

func alignUp(value, alignment uint32) uint32 {
	return (value + alignment - 1) &^ (alignment - 1)
}

// Region is one persistently mapped uniform buffer of constant records.
type Region struct {
	context  *Context
	buffer   vk.Buffer
	memory   vk.DeviceMemory
	mapped   []byte
	elemSize uint32
	stride   uint32
	count    uint32
	released bool
}

func (r *Region) WriteAt(element uint32, data []byte) error {
	if r.released {
		return core.ErrRegionReleased
	}
	if element >= r.count {
		return fmt.Errorf("vulkan: element %d out of range, region holds %d", element, r.count)
	}
	if uint32(len(data)) > r.elemSize {
		return fmt.Errorf("vulkan: write of %d bytes into %d-byte records", len(data), r.elemSize)
	}
	copy(r.mapped[element*r.stride:], data)
	return nil
}

func (r *Region) Stride() uint32 {
	return r.stride
}

// Buffer exposes the underlying handle for descriptor updates.
func (r *Region) Buffer() vk.Buffer {
	return r.buffer
}

func (r *Region) Release() {
	if r.released {
		return
	}
	r.released = true
	device := r.context.Device
	vk.UnmapMemory(device.LogicalDevice, r.memory)
	vk.DestroyBuffer(device.LogicalDevice, r.buffer, r.context.Allocator)
	vk.FreeMemory(device.LogicalDevice, r.memory, r.context.Allocator)
	r.mapped = nil
}

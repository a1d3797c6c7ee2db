package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/emberengine/ember/engine/renderer/frame"
)

// Push constant layout shared with the shaders: two 32-bit record indices,
// the object slot first, the pass slot second.
const (
	pushConstantObjectOffset = 0
	pushConstantPassOffset   = 4
	pushConstantSize         = 8
)

// CommandBuffer records one frame's commands into a primary VkCommandBuffer.
// Binding indices are delivered to the shaders through push constants, which
// index the constant records written by the Arena regions.
type CommandBuffer struct {
	Handle vk.CommandBuffer

	context        *Context
	pipelineLayout vk.PipelineLayout
	state          frame.RecorderState
}

func NewCommandBuffer(context *Context, pool vk.CommandPool, pipelineLayout vk.PipelineLayout) (*CommandBuffer, error) {
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		CommandBufferCount: 1,
		Level:              vk.CommandBufferLevelPrimary,
	}

	handles := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(context.Device.LogicalDevice, &allocateInfo, handles); res != vk.Success {
		return nil, resultErr(res, "allocating command buffer")
	}
	return &CommandBuffer{
		Handle:         handles[0],
		context:        context,
		pipelineLayout: pipelineLayout,
		state:          frame.RecorderReady,
	}, nil
}

func (cb *CommandBuffer) Free(pool vk.CommandPool) {
	vk.FreeCommandBuffers(cb.context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{cb.Handle})
	cb.Handle = nil
}

func (cb *CommandBuffer) Reset() error {
	if res := vk.ResetCommandBuffer(cb.Handle, 0); res != vk.Success {
		return resultErr(res, "resetting command buffer")
	}
	cb.state = frame.RecorderReady
	return nil
}

func (cb *CommandBuffer) Begin() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if res := vk.BeginCommandBuffer(cb.Handle, &beginInfo); res != vk.Success {
		return resultErr(res, "beginning command buffer")
	}
	cb.state = frame.RecorderRecording
	return nil
}

func (cb *CommandBuffer) End() error {
	if res := vk.EndCommandBuffer(cb.Handle); res != vk.Success {
		return resultErr(res, "ending command buffer")
	}
	cb.state = frame.RecorderRecordingEnded
	return nil
}

func (cb *CommandBuffer) UpdateSubmitted() {
	cb.state = frame.RecorderSubmitted
}

func (cb *CommandBuffer) State() frame.RecorderState {
	return cb.state
}

func (cb *CommandBuffer) BindObjectData(index uint32) {
	vk.CmdPushConstants(cb.Handle, cb.pipelineLayout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		pushConstantObjectOffset, 4, unsafe.Pointer(&index))
}

func (cb *CommandBuffer) BindPassData(index uint32) {
	vk.CmdPushConstants(cb.Handle, cb.pipelineLayout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		pushConstantPassOffset, 4, unsafe.Pointer(&index))
}

func (cb *CommandBuffer) DrawIndexed(indexCount, startIndex uint32, baseVertex int32) {
	vk.CmdDrawIndexed(cb.Handle, indexCount, 1, startIndex, baseVertex, 0)
}

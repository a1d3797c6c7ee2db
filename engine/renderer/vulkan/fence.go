package vulkan

import (
	vk "github.com/goki/vulkan"
)

// Fence wraps a VkFence used to observe when a submission has retired.
type Fence struct {
	Handle vk.Fence
}

func NewFence(context *Context, createSignaled bool) (*Fence, error) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if createSignaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var handle vk.Fence
	if res := vk.CreateFence(context.Device.LogicalDevice, &fenceCreateInfo, context.Allocator, &handle); res != vk.Success {
		return nil, resultErr(res, "creating fence")
	}
	return &Fence{Handle: handle}, nil
}

// Wait blocks until the fence signals or the timeout elapses. It returns
// (false, nil) on timeout.
func (f *Fence) Wait(context *Context, timeoutNs uint64) (bool, error) {
	result := vk.WaitForFences(context.Device.LogicalDevice, 1, []vk.Fence{f.Handle}, vk.True, timeoutNs)
	switch result {
	case vk.Success:
		return true, nil
	case vk.Timeout:
		return false, nil
	}
	return false, resultErr(result, "waiting for fence")
}

// Signaled polls the fence without blocking.
func (f *Fence) Signaled(context *Context) (bool, error) {
	return f.Wait(context, 0)
}

// Reset returns the fence to the unsignaled state.
func (f *Fence) Reset(context *Context) error {
	if res := vk.ResetFences(context.Device.LogicalDevice, 1, []vk.Fence{f.Handle}); res != vk.Success {
		return resultErr(res, "resetting fence")
	}
	return nil
}

func (f *Fence) Destroy(context *Context) {
	if f.Handle != vk.Fence(vk.NullHandle) {
		vk.DestroyFence(context.Device.LogicalDevice, f.Handle, context.Allocator)
		f.Handle = vk.Fence(vk.NullHandle)
	}
}

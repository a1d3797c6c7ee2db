package vulkan

import (
	"fmt"
	"runtime"

	vk "github.com/goki/vulkan"

	"github.com/emberengine/ember/engine/core"
)

// Device wraps the physical and logical device plus the single graphics
// queue family the backend submits to. No presentation queue is selected;
// the backend computes and uploads, the swapchain lives elsewhere.
type Device struct {
	PhysicalDevice      vk.PhysicalDevice
	LogicalDevice       vk.Device
	Properties          vk.PhysicalDeviceProperties
	GraphicsQueueIndex  int32
	GraphicsQueue       vk.Queue
	GraphicsCommandPool vk.CommandPool
}

// DeviceCreate picks a physical device with a graphics queue family,
// creates the logical device, fetches the queue and builds the command
// pool.
func DeviceCreate(context *Context) error {
	if err := selectPhysicalDevice(context); err != nil {
		return err
	}
	device := context.Device

	queueCreateInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(device.GraphicsQueueIndex),
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	deviceFeatures := vk.PhysicalDeviceFeatures{}

	var extensionNames []string
	if runtime.GOOS == "darwin" {
		extensionNames = append(extensionNames, "VK_KHR_portability_subset")
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: safeStrings(extensionNames),
	}

	if res := vk.CreateDevice(
		device.PhysicalDevice,
		&deviceCreateInfo,
		context.Allocator,
		&device.LogicalDevice); res != vk.Success {
		return resultErr(res, "creating logical device")
	}
	core.LogInfo("logical device created")

	vk.GetDeviceQueue(
		device.LogicalDevice,
		uint32(device.GraphicsQueueIndex),
		0,
		&device.GraphicsQueue)

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	if res := vk.CreateCommandPool(
		device.LogicalDevice,
		&poolCreateInfo,
		context.Allocator,
		&device.GraphicsCommandPool); res != vk.Success {
		return resultErr(res, "creating graphics command pool")
	}
	core.LogInfo("graphics command pool created")

	return nil
}

// DeviceDestroy releases the logical device resources.
func DeviceDestroy(context *Context) {
	device := context.Device
	if device == nil {
		return
	}
	if device.GraphicsCommandPool != vk.CommandPool(vk.NullHandle) {
		vk.DestroyCommandPool(device.LogicalDevice, device.GraphicsCommandPool, context.Allocator)
		device.GraphicsCommandPool = vk.CommandPool(vk.NullHandle)
	}
	if device.LogicalDevice != nil {
		vk.DestroyDevice(device.LogicalDevice, context.Allocator)
		device.LogicalDevice = nil
	}
	device.PhysicalDevice = nil
	device.GraphicsQueue = nil
	device.GraphicsQueueIndex = -1
}

// MinUniformAlignment returns the device's constant-record alignment
// requirement.
func (d *Device) MinUniformAlignment() uint32 {
	align := uint32(d.Properties.Limits.MinUniformBufferOffsetAlignment)
	if align == 0 {
		align = 256
	}
	return align
}

func selectPhysicalDevice(context *Context) error {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, nil); res != vk.Success {
		return resultErr(res, "enumerating physical devices")
	}
	if physicalDeviceCount == 0 {
		return fmt.Errorf("no devices with Vulkan support found")
	}
	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, physicalDevices); res != vk.Success {
		return resultErr(res, "enumerating physical devices")
	}

	var chosen vk.PhysicalDevice
	var chosenProperties vk.PhysicalDeviceProperties
	chosenQueueIndex := int32(-1)

	for _, candidate := range physicalDevices {
		queueIndex := graphicsQueueFamily(candidate)
		if queueIndex < 0 {
			continue
		}
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(candidate, &properties)
		properties.Deref()
		properties.Limits.Deref()

		// First usable device wins, a discrete GPU replaces an earlier
		// integrated pick.
		if chosen == nil || properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			chosen = candidate
			chosenProperties = properties
			chosenQueueIndex = queueIndex
			if properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
				break
			}
		}
	}
	if chosen == nil {
		return fmt.Errorf("no physical device offers a graphics queue")
	}

	end := firstZero(chosenProperties.DeviceName[:])
	core.LogInfo("selected GPU: %s (graphics queue family %d)",
		string(chosenProperties.DeviceName[:end]), chosenQueueIndex)

	context.Device = &Device{
		PhysicalDevice:     chosen,
		Properties:         chosenProperties,
		GraphicsQueueIndex: chosenQueueIndex,
	}
	return nil
}

func graphicsQueueFamily(device vk.PhysicalDevice) int32 {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

	for i := range queueFamilies {
		queueFamilies[i].Deref()
		if queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			return int32(i)
		}
	}
	return -1
}

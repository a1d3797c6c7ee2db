package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/platform"
	"github.com/emberengine/ember/engine/renderer/frame"
)

// Backend is the Vulkan implementation of frame.Device. It owns the
// instance, the logical device, the single graphics queue and the pipeline
// layout that carries the per-draw binding indices as push constants.
//
// Presentation is not wired here: the backend records and submits frame
// work and exposes constant memory, while the window only supplies the
// surface needed for queue-family selection.
type Backend struct {
	platform *platform.Platform
	context  *Context

	queue               *Queue
	arena               *Arena
	descriptorSetLayout vk.DescriptorSetLayout
	pipelineLayout      vk.PipelineLayout

	debug bool
}

func New(p *platform.Platform) *Backend {
	return &Backend{
		platform: p,
		context: &Context{
			Allocator: nil,
		},
		debug: true,
	}
}

func (b *Backend) Initialize(appName string) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		core.LogError("GetInstanceProcAddress is nil")
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vulkan: %s", err)
		return err
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   safeString(appName),
		PEngineName:        safeString("Ember Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, b.platform.GetRequiredExtensionNames()...)

	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
	}

	if b.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugUtilsExtensionName, vk.ExtDebugReportExtensionName)
		core.LogDebug("required instance extensions: %v", requiredExtensions)
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = safeStrings(requiredExtensions)

	// Validation layers should only be enabled on non-release builds.
	requiredLayers := []string{}
	if b.debug {
		requiredLayers = []string{"VK_LAYER_KHRONOS_validation"}

		if runtime.GOOS == "darwin" {
			createInfo.Flags |= 1
		}

		if err := verifyValidationLayers(requiredLayers); err != nil {
			return err
		}
	}

	createInfo.EnabledLayerCount = uint32(len(requiredLayers))
	createInfo.PpEnabledLayerNames = safeStrings(requiredLayers)

	if res := vk.CreateInstance(&createInfo, b.context.Allocator, &b.context.Instance); res != vk.Success {
		return resultErr(res, "creating vulkan instance")
	}
	if err := vk.InitInstance(b.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("vulkan instance created")

	if b.debug {
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
			PfnCallback: dbgCallbackFunc,
		}

		var dbg vk.DebugReportCallback
		if res := vk.CreateDebugReportCallback(b.context.Instance, &debugCreateInfo, nil, &dbg); res != vk.Success {
			return resultErr(res, "creating debug report callback")
		}
		b.context.debugMessenger = dbg
	}

	surface, err := b.platform.Window.CreateWindowSurface(b.context.Instance, nil)
	if err != nil {
		core.LogError("vulkan surface creation failed: %s", err)
		return err
	}
	b.context.Surface = vk.SurfaceFromPointer(surface)

	if err := DeviceCreate(b.context); err != nil {
		core.LogError("failed to create device: %s", err)
		return err
	}

	if err := b.createPipelineLayout(); err != nil {
		return err
	}

	b.queue = NewQueue(b.context)
	b.arena = NewArena(b.context)

	core.LogInfo("vulkan backend initialized")
	return nil
}

// createPipelineLayout builds the shared layout the forward shaders bind
// against: set 0 with the object and pass constant storage buffers, plus a
// vertex-stage push constant range holding the two record indices.
func (b *Backend) createPipelineLayout() error {
	objectBinding := vk.DescriptorSetLayoutBinding{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeStorageBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}
	passBinding := vk.DescriptorSetLayoutBinding{
		Binding:         1,
		DescriptorType:  vk.DescriptorTypeStorageBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}
	setLayoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 2,
		PBindings:    []vk.DescriptorSetLayoutBinding{objectBinding, passBinding},
	}
	var setLayout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(b.context.Device.LogicalDevice, &setLayoutInfo, b.context.Allocator, &setLayout); res != vk.Success {
		return resultErr(res, "creating descriptor set layout")
	}
	b.descriptorSetLayout = setLayout

	pushRange := vk.PushConstantRange{
		StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		Offset:     0,
		Size:       pushConstantSize,
	}
	layoutInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         1,
		PSetLayouts:            []vk.DescriptorSetLayout{setLayout},
		PushConstantRangeCount: 1,
		PPushConstantRanges:    []vk.PushConstantRange{pushRange},
	}
	var layout vk.PipelineLayout
	if res := vk.CreatePipelineLayout(b.context.Device.LogicalDevice, &layoutInfo, b.context.Allocator, &layout); res != vk.Success {
		return resultErr(res, "creating pipeline layout")
	}
	b.pipelineLayout = layout
	return nil
}

func (b *Backend) Queue() frame.Queue {
	return b.queue
}

func (b *Backend) Arena() frame.Arena {
	return b.arena
}

func (b *Backend) NewRecorder() (frame.Recorder, error) {
	return NewCommandBuffer(b.context, b.context.Device.GraphicsCommandPool, b.pipelineLayout)
}

func (b *Backend) Shutdown() error {
	if b.context.Device != nil && b.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(b.context.Device.LogicalDevice)
	}

	if b.queue != nil {
		b.queue.Destroy()
		b.queue = nil
	}

	if b.pipelineLayout != vk.PipelineLayout(vk.NullHandle) {
		vk.DestroyPipelineLayout(b.context.Device.LogicalDevice, b.pipelineLayout, b.context.Allocator)
		b.pipelineLayout = vk.PipelineLayout(vk.NullHandle)
	}
	if b.descriptorSetLayout != vk.DescriptorSetLayout(vk.NullHandle) {
		vk.DestroyDescriptorSetLayout(b.context.Device.LogicalDevice, b.descriptorSetLayout, b.context.Allocator)
		b.descriptorSetLayout = vk.DescriptorSetLayout(vk.NullHandle)
	}

	DeviceDestroy(b.context)

	if b.context.Surface != vk.Surface(vk.NullHandle) {
		vk.DestroySurface(b.context.Instance, b.context.Surface, b.context.Allocator)
		b.context.Surface = vk.Surface(vk.NullHandle)
	}

	if b.context.debugMessenger != vk.DebugReportCallback(vk.NullHandle) {
		vk.DestroyDebugReportCallback(b.context.Instance, b.context.debugMessenger, b.context.Allocator)
	}

	vk.DestroyInstance(b.context.Instance, b.context.Allocator)
	b.context.Instance = nil

	core.LogInfo("vulkan backend shut down")
	return nil
}

func verifyValidationLayers(required []string) error {
	var availableCount uint32
	if res := vk.EnumerateInstanceLayerProperties(&availableCount, nil); res != vk.Success {
		return resultErr(res, "enumerating instance layers")
	}
	available := make([]vk.LayerProperties, availableCount)
	if res := vk.EnumerateInstanceLayerProperties(&availableCount, available); res != vk.Success {
		return resultErr(res, "enumerating instance layers")
	}

	for _, name := range required {
		found := false
		for j := range available {
			available[j].Deref()
			end := firstZero(available[j].LayerName[:])
			if name == vk.ToString(available[j].LayerName[:end+1]) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("required validation layer is missing: %s", name)
		}
	}
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}

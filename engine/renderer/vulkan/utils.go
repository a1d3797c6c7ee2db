package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/emberengine/ember/engine/core"
)

// safeString null-terminates a Go string for the C side.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// firstZero finds the terminator in a C byte array.
func firstZero(data []byte) int {
	for i, b := range data {
		if b == 0 {
			return i
		}
	}
	return len(data)
}

// resultErr wraps a failing VkResult, mapping the fatal device conditions
// onto the engine's sentinel errors so callers can react to them.
func resultErr(result vk.Result, what string) error {
	switch result {
	case vk.Success:
		return nil
	case vk.ErrorDeviceLost:
		return fmt.Errorf("%s: %w", what, core.ErrDeviceLost)
	case vk.ErrorOutOfDeviceMemory, vk.ErrorOutOfHostMemory:
		return fmt.Errorf("%s: %w", what, core.ErrOutOfDeviceMemory)
	}
	return fmt.Errorf("%s: VkResult(%d)", what, result)
}

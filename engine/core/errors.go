package core

import (
	"errors"
)

var (
	// ErrDeviceLost means the GPU stopped making progress and the device
	// must be torn down and recreated.
	ErrDeviceLost = errors.New("device lost")
	// ErrOutOfDeviceMemory means a buffer or memory allocation failed.
	ErrOutOfDeviceMemory = errors.New("out of device memory")
	// ErrRegionReleased means a constant region was written after Release.
	ErrRegionReleased = errors.New("constant region already released")
	ErrUnknown        = errors.New("unknown")
)

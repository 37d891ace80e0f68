package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
)

// MemoryType classifies where a buffer lives.
type MemoryType int

// Supported memory types.
const (
	CPU MemoryType = iota
	CPUPinned
	GPU
)

// String returns the canonical lowercase name.
func (m MemoryType) String() string {
	switch m {
	case CPU:
		return "cpu"
	case CPUPinned:
		return "cpu_pinned"
	case GPU:
		return "gpu"
	default:
		return fmt.Sprintf("memory_type(%d)", int(m))
	}
}

// IsHost reports whether the memory is directly addressable by the host.
func (m MemoryType) IsHost() bool {
	return m == CPU || m == CPUPinned
}

// Device is a canonical parsed memory specifier: a memory type plus a
// type-local id (typically the device index).
type Device struct {
	Type MemoryType
	ID   int
}

// String returns "type:id".
func (d Device) String() string {
	return fmt.Sprintf("%s:%d", d.Type, d.ID)
}

// ParseDevice canonicalizes a device specifier. Accepted forms:
//
//	string:             "cpu", "gpu:1", "cpu_pinned:0"
//	MemoryType:         id defaults to 0
//	Device:             passed through
//	dlpack.Device:      translated via the protocol device mapping
func ParseDevice(spec any) (Device, error) {
	switch s := spec.(type) {
	case Device:
		return s, nil
	case MemoryType:
		return Device{Type: s}, nil
	case dlpack.Device:
		mt, err := MemoryTypeOf(s.Type)
		if err != nil {
			return Device{}, err
		}
		return Device{Type: mt, ID: int(s.ID)}, nil
	case string:
		return parseDeviceString(s)
	default:
		return Device{}, ferrors.InvalidArgumentf("unsupported device specifier type %T", spec)
	}
}

func parseDeviceString(s string) (Device, error) {
	name, idPart, hasID := strings.Cut(s, ":")
	var d Device
	switch strings.ToLower(name) {
	case "cpu":
		d.Type = CPU
	case "cpu_pinned":
		d.Type = CPUPinned
	case "gpu", "cuda":
		d.Type = GPU
	default:
		return Device{}, ferrors.InvalidArgumentf("unknown device name %q", s)
	}
	if hasID {
		id, err := strconv.Atoi(idPart)
		if err != nil || id < 0 {
			return Device{}, ferrors.InvalidArgumentf("invalid device id in %q", s)
		}
		d.ID = id
	}
	return d, nil
}

// DeviceTypeOf translates a memory type into the protocol's device type.
func DeviceTypeOf(m MemoryType) dlpack.DeviceType {
	switch m {
	case CPUPinned:
		return dlpack.DeviceCUDAHost
	case GPU:
		return dlpack.DeviceCUDA
	default:
		return dlpack.DeviceCPU
	}
}

// MemoryTypeOf translates a protocol device type into a memory type. It
// fails with invalid_argument for device types this core has no memory
// classification for.
func MemoryTypeOf(d dlpack.DeviceType) (MemoryType, error) {
	switch d {
	case dlpack.DeviceCPU:
		return CPU, nil
	case dlpack.DeviceCUDAHost, dlpack.DeviceROCMHost:
		return CPUPinned, nil
	case dlpack.DeviceCUDA, dlpack.DeviceROCM, dlpack.DeviceWebGPU, dlpack.DeviceVulkan, dlpack.DeviceMetal:
		return GPU, nil
	default:
		return CPU, ferrors.InvalidArgumentf("no memory type for dlpack device type %s", d)
	}
}

package dlpack

import "fmt"

// DeviceType identifies the kind of device memory a tensor lives in.
// Values follow the DLPack DLDeviceType enumeration.
type DeviceType int32

// Device types understood by the exchange protocol.
const (
	DeviceCPU         DeviceType = 1
	DeviceCUDA        DeviceType = 2
	DeviceCUDAHost    DeviceType = 3 // pinned host memory, CUDA-accessible
	DeviceOpenCL      DeviceType = 4
	DeviceVulkan      DeviceType = 7
	DeviceMetal       DeviceType = 8
	DeviceROCM        DeviceType = 10
	DeviceROCMHost    DeviceType = 11
	DeviceExtDev      DeviceType = 12
	DeviceCUDAManaged DeviceType = 13
	DeviceOneAPI      DeviceType = 14
	DeviceWebGPU      DeviceType = 15
)

// String returns a human-readable device type name.
func (d DeviceType) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceCUDA:
		return "cuda"
	case DeviceCUDAHost:
		return "cuda_host"
	case DeviceOpenCL:
		return "opencl"
	case DeviceVulkan:
		return "vulkan"
	case DeviceMetal:
		return "metal"
	case DeviceROCM:
		return "rocm"
	case DeviceROCMHost:
		return "rocm_host"
	case DeviceExtDev:
		return "ext_dev"
	case DeviceCUDAManaged:
		return "cuda_managed"
	case DeviceOneAPI:
		return "oneapi"
	case DeviceWebGPU:
		return "webgpu"
	default:
		return fmt.Sprintf("device_type(%d)", int32(d))
	}
}

// Device is the protocol's device descriptor: a device type plus a
// type-local device index.
type Device struct {
	Type DeviceType
	ID   int32
}

// String returns "type:id".
func (d Device) String() string {
	return fmt.Sprintf("%s:%d", d.Type, d.ID)
}

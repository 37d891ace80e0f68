package tensor

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/internal/memory"
)

// fakeBridge moves tensors by copying their bytes into freshly allocated
// buffers, tagging uploads with the GPU memory type.
type fakeBridge struct {
	downloads int
	uploads   int
}

func (b *fakeBridge) Download(t *Tensor) (*Tensor, error) {
	b.downloads++
	data, ok := t.Buffer().Owner().([]byte)
	if !ok {
		return nil, ferrors.Unsupportedf("tensor is not backed by a fake device buffer")
	}
	host := make([]byte, len(data))
	copy(host, data)
	return New(t.DType(), t.Shape(), memory.BufferFromBytes(host))
}

func (b *fakeBridge) Upload(t *Tensor, deviceID int) (*Tensor, error) {
	b.uploads++
	data, err := t.Buffer().HostBytes()
	if err != nil {
		return nil, err
	}
	device := make([]byte, len(data))
	copy(device, data)
	buffer := memory.NewBuffer(unsafe.Pointer(&device[0]), memory.GPU, deviceID, int64(len(device)), device)
	return New(t.DType(), t.Shape(), buffer)
}

func withBridge(t *testing.T, b DeviceBridge) {
	t.Helper()
	Configure(WithBridge(b))
	t.Cleanup(func() { Configure(WithBridge(nil)) })
}

func TestToDeviceSameDeviceIsNoOp(t *testing.T) {
	tensor, err := FromAny([]float32{1, 2, 3})
	require.NoError(t, err)

	moved, err := tensor.ToDevice("cpu")
	require.NoError(t, err)
	assert.Same(t, tensor, moved)
}

func TestToDevicePinnedToHostIsNoOp(t *testing.T) {
	data := make([]byte, 16)
	buffer := memory.NewBuffer(unsafe.Pointer(&data[0]), memory.CPUPinned, 0, 16, data)
	tensor, err := New(FP32, Shape{4}, buffer)
	require.NoError(t, err)

	moved, err := tensor.ToDevice("cpu")
	require.NoError(t, err)
	assert.Same(t, tensor, moved)
	assert.Equal(t, memory.CPUPinned, moved.MemoryType())
}

func TestToDeviceHostToPinnedUnsupported(t *testing.T) {
	tensor, err := FromAny([]float32{1})
	require.NoError(t, err)

	_, err = tensor.ToDevice(memory.CPUPinned)
	require.Error(t, err)
	assert.True(t, ferrors.IsUnsupported(err))
	assert.Contains(t, err.Error(), "cpu")
	assert.Contains(t, err.Error(), "cpu_pinned")
}

func TestToDeviceWithoutBridge(t *testing.T) {
	tensor, err := FromAny([]float32{1, 2})
	require.NoError(t, err)

	_, err = tensor.ToDevice("gpu:1")
	require.Error(t, err)
	assert.True(t, ferrors.IsUnsupported(err))
	assert.Contains(t, err.Error(), "cpu")
	assert.Contains(t, err.Error(), "gpu:1")
}

func TestToDeviceRoundTripThroughBridge(t *testing.T) {
	bridge := &fakeBridge{}
	withBridge(t, bridge)

	tensor, err := FromAny([]float32{1, 2, 3, 4})
	require.NoError(t, err)

	uploaded, err := tensor.ToDevice("gpu:2")
	require.NoError(t, err)
	assert.Equal(t, memory.GPU, uploaded.MemoryType())
	assert.Equal(t, 2, uploaded.MemoryTypeID())
	assert.Equal(t, tensor.Shape(), uploaded.Shape())

	host, err := uploaded.ToHost()
	require.NoError(t, err)
	assert.Equal(t, memory.CPU, host.MemoryType())

	values, err := host.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, values)

	assert.Equal(t, 1, bridge.uploads)
	assert.Equal(t, 1, bridge.downloads)
}

func TestToByteSlicesDownloadsDevicePayload(t *testing.T) {
	bridge := &fakeBridge{}
	withBridge(t, bridge)

	tensor, err := FromAny([][]byte{[]byte("abc"), []byte("defg")})
	require.NoError(t, err)

	device, err := tensor.ToDevice("gpu")
	require.NoError(t, err)

	items, err := device.ToByteSlices()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []byte("abc"), items[0])
	assert.Equal(t, []byte("defg"), items[1])
	assert.Equal(t, 1, bridge.downloads)
}

func TestToByteSlicesRejectsNumericTensor(t *testing.T) {
	tensor, err := FromAny([]int32{1, 2})
	require.NoError(t, err)

	_, err = tensor.ToByteSlices()
	require.Error(t, err)
	assert.True(t, ferrors.IsInvalidArgument(err))
}

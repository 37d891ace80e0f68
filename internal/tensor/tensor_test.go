package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/internal/memory"
)

func TestNewValidatesCapacity(t *testing.T) {
	buffer := memory.BufferFromBytes(make([]byte, 16))

	_, err := New(FP32, Shape{2, 2}, buffer)
	require.NoError(t, err)

	_, err = New(FP32, Shape{3, 2}, buffer)
	require.Error(t, err)
	assert.True(t, ferrors.IsInvalidArgument(err))

	_, err = New(FP32, Shape{2, -1}, buffer)
	require.Error(t, err)
	assert.True(t, ferrors.IsInvalidArgument(err))

	// Bytes payload size is independent of the shape.
	_, err = New(Bytes, Shape{100}, buffer)
	require.NoError(t, err)
}

func TestTensorProperties(t *testing.T) {
	tensor, err := FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, Shape{3, 4})
	require.NoError(t, err)

	assert.Equal(t, FP32, tensor.DType())
	assert.Equal(t, Shape{3, 4}, tensor.Shape())
	assert.Equal(t, int64(12), tensor.NumElements())
	assert.Equal(t, int64(48), tensor.Size())
	assert.Equal(t, memory.CPU, tensor.MemoryType())
	assert.Equal(t, 0, tensor.MemoryTypeID())
	assert.NotZero(t, tensor.DataPtr())

	// Re-query through the buffer agrees.
	assert.Equal(t, tensor.Size(), tensor.Buffer().Size())
}

func TestDLPackDevice(t *testing.T) {
	tensor, err := FromAny([]int32{1, 2})
	require.NoError(t, err)

	device, err := tensor.DLPackDevice()
	require.NoError(t, err)
	assert.Equal(t, dlpack.Device{Type: dlpack.DeviceCPU, ID: 0}, device)
}

func TestExportPinsUntilDeleted(t *testing.T) {
	tensor, err := FromAny([]float32{1, 2, 3})
	require.NoError(t, err)

	before := dlpack.Pins().Len()
	capsule, err := tensor.DLPack()
	require.NoError(t, err)
	assert.Equal(t, before+1, dlpack.Pins().Len())

	record, err := capsule.Consume()
	require.NoError(t, err)
	assert.Equal(t, tensor.DataPtr(), record.Tensor.Data)
	assert.Equal(t, []int64{3}, record.Tensor.Shape)
	assert.Nil(t, record.Tensor.Strides)

	// Exactly-once finalize: the second invocation must not disturb the
	// pin table.
	assert.True(t, record.Delete())
	assert.False(t, record.Delete())
	assert.Equal(t, before, dlpack.Pins().Len())
}

func TestUnconsumedCapsuleDestroyReleasesPin(t *testing.T) {
	tensor, err := FromAny([]float32{1})
	require.NoError(t, err)

	before := dlpack.Pins().Len()
	capsule, err := tensor.DLPack()
	require.NoError(t, err)

	capsule.Destroy()
	capsule.Destroy()
	assert.Equal(t, before, dlpack.Pins().Len())
}

func TestBytesTensorHasNoDLPackExport(t *testing.T) {
	tensor, err := FromAny([]string{"a"})
	require.NoError(t, err)

	_, err = tensor.DLPack()
	require.Error(t, err)
	assert.True(t, ferrors.IsInvalidArgument(err))
}

func TestSelfImportSharesMemory(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	source, err := FromSlice(data, Shape{2, 2})
	require.NoError(t, err)

	imported, err := FromDLPack(source)
	require.NoError(t, err)

	assert.Equal(t, source.DataPtr(), imported.DataPtr())
	assert.Equal(t, source.DType(), imported.DType())
	assert.Equal(t, source.Shape(), imported.Shape())
	assert.Equal(t, source.Size(), imported.Size())

	// Zero copy: writes through the original are visible.
	data[0] = 99
	values, err := imported.Float32s()
	require.NoError(t, err)
	assert.Equal(t, float32(99), values[0])
}

package tensor

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	ferrors "github.com/ferry-ml/ferry/errors"
)

func TestNewHostArrayValidation(t *testing.T) {
	_, err := NewHostArray(Bytes, Shape{2}, make([]byte, 8))
	require.Error(t, err)
	assert.True(t, ferrors.IsInvalidArgument(err))

	_, err = NewHostArray(FP32, Shape{4}, make([]byte, 8))
	require.Error(t, err)
	assert.True(t, ferrors.IsInvalidArgument(err))

	array, err := NewHostArray(FP32, Shape{2}, make([]byte, 8))
	require.NoError(t, err)
	assert.Equal(t, int64(2), array.NumElements())
}

func TestHostArrayTensorSharesBytes(t *testing.T) {
	data := make([]byte, 8)
	binary.NativeEndian.PutUint32(data, math.Float32bits(1.5))
	binary.NativeEndian.PutUint32(data[4:], math.Float32bits(-2.0))

	array, err := NewHostArray(FP32, Shape{2}, data)
	require.NoError(t, err)

	tensor, err := array.Tensor()
	require.NoError(t, err)
	payload, err := tensor.Buffer().HostBytes()
	require.NoError(t, err)
	assert.Equal(t, &data[0], &payload[0])

	values, err := array.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2.0}, values)
}

func TestHostArrayFromTensorZeroCopy(t *testing.T) {
	tensor, err := FromAny([]float32{3, 4})
	require.NoError(t, err)

	array, err := HostArrayFromTensor(tensor)
	require.NoError(t, err)
	assert.Equal(t, FP32, array.DType())
	assert.Equal(t, Shape{2}, array.Shape())

	payload, err := tensor.Buffer().HostBytes()
	require.NoError(t, err)
	assert.Equal(t, &payload[0], &array.Data()[0])
}

func TestHostArrayFromTensorRejectsBytes(t *testing.T) {
	tensor, err := FromAny([]string{"a"})
	require.NoError(t, err)

	_, err = HostArrayFromTensor(tensor)
	require.Error(t, err)
	assert.True(t, ferrors.IsInvalidArgument(err))
}

func TestHostArrayFloat32sHalfPrecision(t *testing.T) {
	want := []float32{0.5, -1.25, 2}

	half := make([]byte, 2*len(want))
	for i, v := range want {
		binary.NativeEndian.PutUint16(half[2*i:], float16.Fromfloat32(v).Bits())
	}
	array, err := NewHostArray(FP16, Shape{int64(len(want))}, half)
	require.NoError(t, err)
	values, err := array.Float32s()
	require.NoError(t, err)
	assert.Equal(t, want, values)

	// bfloat16 is the high half of the float32 bit pattern; these values
	// are exactly representable.
	brain := make([]byte, 2*len(want))
	for i, v := range want {
		binary.LittleEndian.PutUint16(brain[2*i:], uint16(math.Float32bits(v)>>16))
	}
	array, err = NewHostArray(BF16, Shape{int64(len(want))}, brain)
	require.NoError(t, err)
	values, err = array.Float32s()
	require.NoError(t, err)
	assert.Equal(t, want, values)
}

func TestHostArrayFloat32sUnsupportedDType(t *testing.T) {
	array, err := NewHostArray(Int32, Shape{2}, make([]byte, 8))
	require.NoError(t, err)

	_, err = array.Float32s()
	require.Error(t, err)
	assert.True(t, ferrors.IsUnsupported(err))
}

package dlpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExporter exports a fixed record through the protocol.
type fakeExporter struct {
	tensor Tensor
}

func (f *fakeExporter) DLPack() (*Capsule, error) {
	return NewCapsule(NewManagedTensor(f.tensor, f, nil)), nil
}

func (f *fakeExporter) DLPackDevice() (Device, error) {
	return f.tensor.Device, nil
}

func TestNewViewRejectsNonExchanger(t *testing.T) {
	_, err := NewView(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dlpack protocol")
}

func TestViewFields(t *testing.T) {
	exporter := &fakeExporter{tensor: Tensor{
		Data:   0x1000,
		Device: Device{Type: DeviceCUDA, ID: 1},
		DType:  DataType{Code: CodeFloat, Bits: 32, Lanes: 1},
		Shape:  []int64{3, 4},
	}}

	view, err := NewView(exporter)
	require.NoError(t, err)
	defer view.Release()

	assert.Equal(t, uintptr(0x1000), view.DataPtr())
	assert.Equal(t, Device{Type: DeviceCUDA, ID: 1}, view.Device())
	assert.Equal(t, []int64{3, 4}, view.Shape())
	assert.Equal(t, int64(12), view.NumElements())
	assert.Equal(t, int64(48), view.ByteSize())
	assert.True(t, view.Contiguous())
}

func TestViewContiguity(t *testing.T) {
	tests := []struct {
		name    string
		shape   []int64
		strides []int64
		want    bool
	}{
		{"nil strides", []int64{3, 4}, nil, true},
		{"row major", []int64{3, 4}, []int64{4, 1}, true},
		{"column major", []int64{3, 4}, []int64{1, 3}, false},
		{"sliced", []int64{3, 4}, []int64{8, 1}, false},
		{"size one dims unconstrained", []int64{1, 4}, []int64{100, 1}, true},
		{"scalar", nil, []int64{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := &fakeExporter{tensor: Tensor{
				Device:  Device{Type: DeviceCPU},
				DType:   DataType{Code: CodeFloat, Bits: 32, Lanes: 1},
				Shape:   tt.shape,
				Strides: tt.strides,
			}}
			view, err := NewView(exporter)
			require.NoError(t, err)
			defer view.Release()

			assert.Equal(t, tt.want, view.Contiguous())
		})
	}
}

func TestViewByteOffset(t *testing.T) {
	exporter := &fakeExporter{tensor: Tensor{
		Data:       0x2000,
		ByteOffset: 16,
		Device:     Device{Type: DeviceCPU},
		DType:      DataType{Code: CodeUInt, Bits: 8, Lanes: 1},
		Shape:      []int64{8},
	}}
	view, err := NewView(exporter)
	require.NoError(t, err)
	defer view.Release()

	assert.Equal(t, uintptr(0x2010), view.DataPtr())
}

package tensor

import (
	"go.uber.org/zap"

	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/internal/memory"
)

// ToHost moves the tensor to plain host memory.
func (t *Tensor) ToHost() (*Tensor, error) {
	return t.ToDevice("cpu")
}

// ToDevice moves the tensor to the given device. The target may be a
// string, a memory.MemoryType, a memory.Device, or a dlpack.Device.
//
// Moves between identical devices return the receiver unchanged, as does
// pinned-host to plain-host: both are host-resident and the pinned buffer
// satisfies every plain-host read. Any other combination needs the
// configured device bridge; without one, or for a pair the bridge cannot
// serve, the move fails naming both sides.
func (t *Tensor) ToDevice(target any) (*Tensor, error) {
	dst, err := memory.ParseDevice(target)
	if err != nil {
		return nil, err
	}
	src := memory.Device{Type: t.MemoryType(), ID: t.MemoryTypeID()}

	if src == dst {
		return t, nil
	}
	if src.Type == memory.CPUPinned && dst.Type == memory.CPU {
		return t, nil
	}

	if bridge := activeBridge(); bridge != nil {
		logger().Debug("migrating tensor",
			zap.Stringer("from", src),
			zap.Stringer("to", dst),
			zap.Stringer("dtype", t.DType()))
		switch dst.Type {
		case memory.CPU:
			return bridge.Download(t)
		case memory.GPU:
			return bridge.Upload(t, dst.ID)
		}
	}

	return nil, ferrors.Unsupportedf("conversion from %s to %s not supported", src, dst)
}

// ToByteSlices deserializes a variable-length tensor into its elements in
// row-major order. Device-resident payloads are copied to the host first.
// The tensor itself is never mutated; deserialization reads the payload
// through a transient byte-oriented view.
func (t *Tensor) ToByteSlices() ([][]byte, error) {
	if t.dtype != Bytes {
		return nil, ferrors.InvalidArgumentf("tensor has data type %s, not %s", t.dtype, Bytes)
	}

	// Transient reinterpretation of the same buffer as a flat byte
	// tensor; the receiver keeps its dtype and shape.
	byteView, err := New(UInt8, Shape{t.Size()}, t.buffer)
	if err != nil {
		return nil, err
	}
	if !t.MemoryType().IsHost() {
		byteView, err = byteView.ToHost()
		if err != nil {
			return nil, err
		}
	}
	payload, err := byteView.Buffer().HostBytes()
	if err != nil {
		return nil, err
	}
	items, err := DecodeByteStrings(payload)
	if err != nil {
		return nil, err
	}
	if want := t.NumElements(); int64(len(items)) != want {
		return nil, ferrors.InvalidArgumentf(
			"payload holds %d elements, shape %v requires %d", len(items), []int64(t.shape), want)
	}
	return items, nil
}

// Float32s copies the tensor's elements to the host widened to float32.
// Supported dtypes are FP32, FP16 and BF16.
func (t *Tensor) Float32s() ([]float32, error) {
	host, err := t.ToHost()
	if err != nil {
		return nil, err
	}
	array, err := HostArrayFromTensor(host)
	if err != nil {
		return nil, err
	}
	return array.Float32s()
}

package tensor

import (
	"encoding/binary"
	"fmt"

	ferrors "github.com/ferry-ml/ferry/errors"
)

// Variable-length tensor payload format: each element is a 4-byte
// native-endian unsigned length prefix followed by that many payload
// bytes, concatenated in element order.

const lengthPrefixSize = 4

// EncodeByteStrings serializes items into a variable-length payload.
func EncodeByteStrings(items [][]byte) []byte {
	size := 0
	for _, item := range items {
		size += lengthPrefixSize + len(item)
	}
	out := make([]byte, 0, size)
	for _, item := range items {
		out = binary.NativeEndian.AppendUint32(out, uint32(len(item)))
		out = append(out, item...)
	}
	return out
}

// EncodeStrings serializes items, UTF-8 encoding each string.
func EncodeStrings(items []string) []byte {
	raw := make([][]byte, len(items))
	for i, item := range items {
		raw[i] = []byte(item)
	}
	return EncodeByteStrings(raw)
}

// EncodeValues serializes arbitrary elements: byte strings pass through,
// anything else is stringified then UTF-8 encoded.
func EncodeValues(items []any) []byte {
	raw := make([][]byte, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case []byte:
			raw[i] = v
		case string:
			raw[i] = []byte(v)
		default:
			raw[i] = []byte(fmt.Sprint(v))
		}
	}
	return EncodeByteStrings(raw)
}

// DecodeByteStrings deserializes a variable-length payload back into its
// elements, in order. A length prefix that would read past the end of the
// buffer is a hard error, never a truncated result.
func DecodeByteStrings(buf []byte) ([][]byte, error) {
	var items [][]byte
	offset := 0
	for offset < len(buf) {
		if len(buf)-offset < lengthPrefixSize {
			return nil, ferrors.InvalidArgumentf(
				"malformed payload: %d trailing bytes, need %d for a length prefix",
				len(buf)-offset, lengthPrefixSize)
		}
		n := int(binary.NativeEndian.Uint32(buf[offset:]))
		offset += lengthPrefixSize
		if n > len(buf)-offset {
			return nil, ferrors.InvalidArgumentf(
				"malformed payload: length prefix %d exceeds %d remaining bytes",
				n, len(buf)-offset)
		}
		item := make([]byte, n)
		copy(item, buf[offset:offset+n])
		items = append(items, item)
		offset += n
	}
	return items, nil
}

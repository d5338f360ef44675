package common

import (
	"errors"
	"fmt"
	"reflect"
)

// Byte widths of the fixed-size primitives.
const (
	SizeOfByte    = 1
	SizeOfBool    = 1
	SizeOfInt16   = 2
	SizeOfUint16  = 2
	SizeOfInt32   = 4
	SizeOfUint32  = 4
	SizeOfFloat32 = 4
	SizeOfInt64   = 8
	SizeOfUint64  = 8
	SizeOfFloat64 = 8
	SizeOfWord    = 8
)

var ErrOutOfBounds = errors.New("index out of bounds")

// SizeOf returns the byte width for fixed-size primitive kinds, -1 otherwise.
func SizeOf(k reflect.Kind) int {
	switch k {
	case reflect.Bool:
		return SizeOfBool
	case reflect.Int8, reflect.Uint8:
		return SizeOfByte
	case reflect.Int16:
		return SizeOfInt16
	case reflect.Uint16:
		return SizeOfUint16
	case reflect.Int32:
		return SizeOfInt32
	case reflect.Uint32:
		return SizeOfUint32
	case reflect.Float32:
		return SizeOfFloat32
	case reflect.Int64:
		return SizeOfInt64
	case reflect.Uint64:
		return SizeOfUint64
	case reflect.Float64:
		return SizeOfFloat64
	default:
		return -1
	}
}

// CheckPositionIndexes validates 0 <= start <= end <= size. For element
// ranges end is exclusive, so end == size is allowed.
func CheckPositionIndexes(start, end, size int) error {
	if start < 0 || end < start || end > size {
		return fmt.Errorf("%w: [%d, %d) not within [0, %d)", ErrOutOfBounds, start, end, size)
	}
	return nil
}

// CheckIndexLength validates [index, index+length) against size without
// overflowing when length is huge.
func CheckIndexLength(index, length, size int) error {
	if index < 0 || length < 0 || index > size || length > size-index {
		return fmt.Errorf("%w: index %d, length %d, size %d", ErrOutOfBounds, index, length, size)
	}
	return nil
}

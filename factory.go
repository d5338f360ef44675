package slice

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/slice/internal/common"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Fixed lists the primitive element types WrapValues accepts.
type Fixed interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Empty returns the shared zero-length slice.
func Empty() *Slice {
	return emptySlice
}

// Wrap returns a slice over all of b. No bytes are copied.
func Wrap(b []byte) (*Slice, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: base is nil", ErrInvalidSlice)
	}
	return &Slice{base: b, size: len(b)}, nil
}

// WrapRange returns a slice over b[offset:offset+length]. No bytes are copied.
func WrapRange(b []byte, offset, length int) (*Slice, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: base is nil", ErrInvalidSlice)
	}
	if err := common.CheckIndexLength(offset, length, len(b)); err != nil {
		return nil, err
	}
	return &Slice{base: b, offset: offset, size: length}, nil
}

// WrapPointer returns a slice over size bytes of raw memory starting at p.
// ref is held only to keep the owner of that memory alive; the caller must
// guarantee the region stays valid for as long as the slice is used.
func WrapPointer(p unsafe.Pointer, size int, ref any) (*Slice, error) {
	if uintptr(p) == 0 {
		return nil, fmt.Errorf("%w: invalid address: %#x", ErrInvalidSlice, uintptr(p))
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size: %d", ErrInvalidSlice, size)
	}
	if uintptr(size) > math.MaxUint-uintptr(p) {
		return nil, fmt.Errorf("%w: address + size overflows", ErrInvalidSlice)
	}
	return &Slice{addr: p, size: size, ref: ref}, nil
}

// WrapValues returns a slice over the memory of v reinterpreted as bytes in
// host order. v is retained as the slice's reference.
func WrapValues[T Fixed](v []T) (*Slice, error) {
	return WrapValuesRange(v, 0, len(v))
}

// WrapValuesRange is WrapValues over the elements v[offset:offset+length].
func WrapValuesRange[T Fixed](v []T, offset, length int) (*Slice, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: base is nil", ErrInvalidSlice)
	}
	if length < 0 || length > math.MaxInt-max(offset, 0) {
		return nil, fmt.Errorf("%w: invalid length: %d", ErrInvalidSlice, length)
	}
	if err := common.CheckPositionIndexes(offset, offset+length, len(v)); err != nil {
		return nil, err
	}
	if length == 0 {
		return emptySlice, nil
	}
	width := common.SizeOf(reflect.TypeFor[T]().Kind())
	n := length * width
	base := unsafe.Slice((*byte)(unsafe.Pointer(&v[offset])), n)
	return &Slice{base: base, size: n, ref: v}, nil
}

// Allocate returns a slice over a new zeroed buffer of n bytes.
func Allocate(n int) (*Slice, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: invalid size: %d", ErrInvalidSlice, n)
	}
	if n == 0 {
		return emptySlice, nil
	}
	return &Slice{base: make([]byte, n), size: n}, nil
}

// CopyOf returns a managed copy of s.
func CopyOf(s *Slice) (*Slice, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: source is nil", ErrInvalidSlice)
	}
	if s.size == 0 {
		return emptySlice, nil
	}
	return Wrap(s.ToBytes())
}

// FromString encodes str with enc into a new slice. A nil enc means UTF-8.
func FromString(str string, enc encoding.Encoding) (*Slice, error) {
	if str == "" {
		return emptySlice, nil
	}
	if enc == nil {
		enc = unicode.UTF8
	}
	b, err := enc.NewEncoder().Bytes([]byte(str))
	if err != nil {
		return nil, err
	}
	return Wrap(b)
}

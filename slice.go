// Package slice provides bounds-checked views over byte regions that live
// either in managed []byte storage or in raw memory outside the Go heap.
package slice

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/rawbytedev/slice/internal/common"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var (
	ErrInvalidSlice = errors.New("invalid slice")
	ErrOutOfBounds  = common.ErrOutOfBounds
	ErrUnsupported  = errors.New("memory mapping not supported on this platform")
)

// Slice is a fixed-length, bounds-checked window over a contiguous byte
// region. The region is either part of a managed []byte or raw memory at an
// absolute address. Equality, ordering and hashing look only at the bytes.
//
// A Slice may be read from many goroutines at once. Writes (Set*, Fill,
// Clear) racing with any other access must be synchronized by the caller.
type Slice struct {
	// hash is first so it stays 64-bit aligned for atomic access on 32-bit
	// platforms.
	hash uint64

	// base is the managed backing array, nil for unmanaged memory.
	base []byte
	// offset into base when base != nil.
	offset int
	// addr is the absolute start of the region when base == nil.
	addr unsafe.Pointer
	size int

	// ref keeps the owner of the memory reachable. It is never used for
	// addressing.
	ref any
}

var emptySlice = &Slice{}

func (s *Slice) ptr(index int) unsafe.Pointer {
	if s.base != nil {
		return unsafe.Pointer(&s.base[s.offset+index])
	}
	return unsafe.Add(s.addr, index)
}

// bytes aliases [index, index+length) as a []byte. The range must already be
// validated.
func (s *Slice) bytes(index, length int) []byte {
	if length == 0 {
		return nil
	}
	if s.base != nil {
		start := s.offset + index
		return s.base[start : start+length : start+length]
	}
	return bytesAt(unsafe.Add(s.addr, index), length)
}

func (s *Slice) checkIndexLength(index, length int) error {
	return common.CheckIndexLength(index, length, s.size)
}

// UnsafeBase returns the managed backing array or nil when the slice
// addresses raw memory. Together with UnsafeAddress it bypasses every bounds
// check this type performs.
func (s *Slice) UnsafeBase() []byte {
	return s.base
}

// UnsafeAddress is the offset into UnsafeBase when the slice is managed, or
// the absolute address of the region otherwise.
func (s *Slice) UnsafeAddress() uintptr {
	if s.base != nil {
		return uintptr(s.offset)
	}
	return uintptr(s.addr)
}

// Reference returns the keep-alive reference held by the slice, if any.
func (s *Slice) Reference() any {
	return s.ref
}

// Len returns the length of the slice in bytes.
func (s *Slice) Len() int {
	return s.size
}

// Fill sets every byte of the slice to value.
func (s *Slice) Fill(value byte) {
	if s.size == 0 {
		return
	}
	fillMemory(s.ptr(0), s.size, value)
}

// Clear zeroes the slice.
func (s *Slice) Clear() {
	_ = s.ClearRange(0, s.size)
}

// ClearRange zeroes length bytes starting at offset. The whole range must lie
// within the slice.
func (s *Slice) ClearRange(offset, length int) error {
	if err := s.checkIndexLength(offset, length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	fillMemory(s.ptr(offset), length, 0)
	return nil
}

// GetByte returns the signed byte at index.
func (s *Slice) GetByte(index int) (int8, error) {
	if err := s.checkIndexLength(index, common.SizeOfByte); err != nil {
		return 0, err
	}
	return int8(load8(s.ptr(index))), nil
}

// GetUnsignedByte returns the byte at index widened without sign extension.
func (s *Slice) GetUnsignedByte(index int) (int, error) {
	b, err := s.GetByte(index)
	if err != nil {
		return 0, err
	}
	return int(b) & 0xFF, nil
}

// GetInt16 reads a little-endian int16 at index.
func (s *Slice) GetInt16(index int) (int16, error) {
	v, err := s.GetUint16(index)
	return int16(v), err
}

func (s *Slice) GetUint16(index int) (uint16, error) {
	if err := s.checkIndexLength(index, common.SizeOfUint16); err != nil {
		return 0, err
	}
	return load16(s.ptr(index)), nil
}

func (s *Slice) GetInt32(index int) (int32, error) {
	v, err := s.GetUint32(index)
	return int32(v), err
}

func (s *Slice) GetUint32(index int) (uint32, error) {
	if err := s.checkIndexLength(index, common.SizeOfUint32); err != nil {
		return 0, err
	}
	return load32(s.ptr(index)), nil
}

func (s *Slice) GetInt64(index int) (int64, error) {
	v, err := s.GetUint64(index)
	return int64(v), err
}

func (s *Slice) GetUint64(index int) (uint64, error) {
	if err := s.checkIndexLength(index, common.SizeOfUint64); err != nil {
		return 0, err
	}
	return load64(s.ptr(index)), nil
}

// GetFloat32 reads the IEEE 754 bits of a float32 at index.
func (s *Slice) GetFloat32(index int) (float32, error) {
	if err := s.checkIndexLength(index, common.SizeOfFloat32); err != nil {
		return 0, err
	}
	return math.Float32frombits(load32(s.ptr(index))), nil
}

func (s *Slice) GetFloat64(index int) (float64, error) {
	if err := s.checkIndexLength(index, common.SizeOfFloat64); err != nil {
		return 0, err
	}
	return math.Float64frombits(load64(s.ptr(index))), nil
}

// SetByte stores the low 8 bits of value at index.
func (s *Slice) SetByte(index int, value int) error {
	if err := s.checkIndexLength(index, common.SizeOfByte); err != nil {
		return err
	}
	store8(s.ptr(index), byte(value&0xFF))
	return nil
}

// SetInt16 stores the low 16 bits of value at index.
func (s *Slice) SetInt16(index int, value int) error {
	return s.SetUint16(index, uint16(value&0xFFFF))
}

func (s *Slice) SetUint16(index int, value uint16) error {
	if err := s.checkIndexLength(index, common.SizeOfUint16); err != nil {
		return err
	}
	store16(s.ptr(index), value)
	return nil
}

func (s *Slice) SetInt32(index int, value int32) error {
	return s.SetUint32(index, uint32(value))
}

func (s *Slice) SetUint32(index int, value uint32) error {
	if err := s.checkIndexLength(index, common.SizeOfUint32); err != nil {
		return err
	}
	store32(s.ptr(index), value)
	return nil
}

func (s *Slice) SetInt64(index int, value int64) error {
	return s.SetUint64(index, uint64(value))
}

func (s *Slice) SetUint64(index int, value uint64) error {
	if err := s.checkIndexLength(index, common.SizeOfUint64); err != nil {
		return err
	}
	store64(s.ptr(index), value)
	return nil
}

// SetFloat32 stores the IEEE 754 bits of value at index.
func (s *Slice) SetFloat32(index int, value float32) error {
	if err := s.checkIndexLength(index, common.SizeOfFloat32); err != nil {
		return err
	}
	store32(s.ptr(index), math.Float32bits(value))
	return nil
}

func (s *Slice) SetFloat64(index int, value float64) error {
	if err := s.checkIndexLength(index, common.SizeOfFloat64); err != nil {
		return err
	}
	store64(s.ptr(index), math.Float64bits(value))
	return nil
}

// GetBytes copies len(dst) bytes starting at index into dst.
func (s *Slice) GetBytes(index int, dst *Slice) error {
	if dst == nil {
		return ErrInvalidSlice
	}
	return s.GetBytesRange(index, dst, 0, dst.size)
}

func (s *Slice) GetBytesRange(index int, dst *Slice, dstIndex, length int) error {
	if dst == nil {
		return ErrInvalidSlice
	}
	return dst.SetBytesRange(dstIndex, s, index, length)
}

// GetBytesInto copies len(dst) bytes starting at index into dst.
func (s *Slice) GetBytesInto(index int, dst []byte) error {
	return s.GetBytesIntoRange(index, dst, 0, len(dst))
}

func (s *Slice) GetBytesIntoRange(index int, dst []byte, dstIndex, length int) error {
	if err := s.checkIndexLength(index, length); err != nil {
		return err
	}
	if err := common.CheckIndexLength(dstIndex, length, len(dst)); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	copyMemory(unsafe.Pointer(&dst[dstIndex]), s.ptr(index), length)
	return nil
}

// ToBytes returns a copy of the slice contents.
func (s *Slice) ToBytes() []byte {
	b, _ := s.ToBytesRange(0, s.size)
	return b
}

func (s *Slice) ToBytesRange(index, length int) ([]byte, error) {
	if err := s.checkIndexLength(index, length); err != nil {
		return nil, err
	}
	b := make([]byte, length)
	if err := s.GetBytesIntoRange(index, b, 0, length); err != nil {
		return nil, err
	}
	return b, nil
}

// ByteView returns a []byte that aliases [index, index+length) without
// copying. Writes through it are visible through the slice.
func (s *Slice) ByteView(index, length int) ([]byte, error) {
	if err := s.checkIndexLength(index, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}
	return s.bytes(index, length), nil
}

// SetBytes copies all of src into this slice starting at index.
func (s *Slice) SetBytes(index int, src *Slice) error {
	if src == nil {
		return ErrInvalidSlice
	}
	return s.SetBytesRange(index, src, 0, src.size)
}

func (s *Slice) SetBytesRange(index int, src *Slice, srcIndex, length int) error {
	if src == nil {
		return ErrInvalidSlice
	}
	if err := s.checkIndexLength(index, length); err != nil {
		return err
	}
	if err := src.checkIndexLength(srcIndex, length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	copyMemory(s.ptr(index), src.ptr(srcIndex), length)
	return nil
}

// SetBytesFromArray copies all of src into this slice starting at index.
func (s *Slice) SetBytesFromArray(index int, src []byte) error {
	return s.SetBytesFromArrayRange(index, src, 0, len(src))
}

func (s *Slice) SetBytesFromArrayRange(index int, src []byte, srcIndex, length int) error {
	if err := common.CheckIndexLength(srcIndex, length, len(src)); err != nil {
		return err
	}
	if err := s.checkIndexLength(index, length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	copyMemory(s.ptr(index), unsafe.Pointer(&src[srcIndex]), length)
	return nil
}

// Slice returns a sub-view of [index, index+length) sharing this slice's
// memory. Asking for the whole range returns s itself; asking for nothing
// returns Empty().
func (s *Slice) Slice(index, length int) (*Slice, error) {
	if index == 0 && length == s.size {
		return s, nil
	}
	if err := s.checkIndexLength(index, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return emptySlice, nil
	}
	sub := &Slice{base: s.base, size: length, ref: s.ref}
	if s.base != nil {
		sub.offset = s.offset + index
	} else {
		sub.addr = unsafe.Add(s.addr, index)
	}
	return sub, nil
}

// Compare orders two slices by their contents, comparing bytes as unsigned
// values. A nil slice compares as empty.
func (s *Slice) Compare(that *Slice) int {
	if s == that {
		return 0
	}
	if that == nil {
		that = emptySlice
	}
	return s.compare(0, s.size, that, 0, that.size)
}

// CompareRange compares [offset, offset+length) of s with
// [otherOffset, otherOffset+otherLength) of that.
func (s *Slice) CompareRange(offset, length int, that *Slice, otherOffset, otherLength int) (int, error) {
	if s == that && offset == otherOffset && length == otherLength {
		return 0, nil
	}
	if that == nil {
		return 0, ErrInvalidSlice
	}
	if err := s.checkIndexLength(offset, length); err != nil {
		return 0, err
	}
	if err := that.checkIndexLength(otherOffset, otherLength); err != nil {
		return 0, err
	}
	return s.compare(offset, length, that, otherOffset, otherLength), nil
}

func (s *Slice) compare(offset, length int, that *Slice, otherOffset, otherLength int) int {
	n := min(length, otherLength)
	for n >= common.SizeOfWord {
		a := loadWordBE(s.ptr(offset))
		b := loadWordBE(that.ptr(otherOffset))
		if v := cmp.Compare(a, b); v != 0 {
			return v
		}
		offset += common.SizeOfWord
		otherOffset += common.SizeOfWord
		n -= common.SizeOfWord
	}
	for n > 0 {
		a := load8(s.ptr(offset))
		b := load8(that.ptr(otherOffset))
		if a != b {
			return int(a) - int(b)
		}
		offset++
		otherOffset++
		n--
	}
	return cmp.Compare(length, otherLength)
}

// Equal reports whether s and that hold the same bytes.
func (s *Slice) Equal(that *Slice) bool {
	if s == that {
		return true
	}
	if that == nil || s.size != that.size {
		return false
	}
	return s.equal(0, that, 0, s.size)
}

// EqualRange reports whether [offset, offset+length) of s holds the same
// bytes as [otherOffset, otherOffset+otherLength) of that. Different lengths
// are unequal without further checks.
func (s *Slice) EqualRange(offset, length int, that *Slice, otherOffset, otherLength int) (bool, error) {
	if length != otherLength {
		return false, nil
	}
	if s == that && offset == otherOffset {
		return true, nil
	}
	if that == nil {
		return false, ErrInvalidSlice
	}
	if err := s.checkIndexLength(offset, length); err != nil {
		return false, err
	}
	if err := that.checkIndexLength(otherOffset, otherLength); err != nil {
		return false, err
	}
	return s.equal(offset, that, otherOffset, length), nil
}

func (s *Slice) equal(offset int, that *Slice, otherOffset, length int) bool {
	for length >= common.SizeOfWord {
		if loadWord(s.ptr(offset)) != loadWord(that.ptr(otherOffset)) {
			return false
		}
		offset += common.SizeOfWord
		otherOffset += common.SizeOfWord
		length -= common.SizeOfWord
	}
	for length > 0 {
		if load8(s.ptr(offset)) != load8(that.ptr(otherOffset)) {
			return false
		}
		offset++
		otherOffset++
		length--
	}
	return true
}

// Hash returns the xxHash64 of the slice contents. The value is cached once
// computed, so later writes to the bytes do not change it.
//
// Goroutines racing on the first call may each compute and store the hash;
// the value is deterministic so the race is harmless.
func (s *Slice) Hash() uint64 {
	if h := atomic.LoadUint64(&s.hash); h != 0 {
		return h
	}
	h := DefaultHasher(s.bytes(0, s.size))
	atomic.StoreUint64(&s.hash, h)
	return h
}

// HashRange hashes [offset, offset+length) with DefaultHasher. The result is
// not cached.
func (s *Slice) HashRange(offset, length int) (uint64, error) {
	return s.HashRangeWith(DefaultHasher, offset, length)
}

func (s *Slice) HashRangeWith(h Hasher, offset, length int) (uint64, error) {
	if err := s.checkIndexLength(offset, length); err != nil {
		return 0, err
	}
	if h == nil {
		h = DefaultHasher
	}
	return h(s.bytes(offset, length)), nil
}

// ToString decodes the slice with enc. A nil enc means UTF-8.
func (s *Slice) ToString(enc encoding.Encoding) (string, error) {
	return s.ToStringRange(0, s.size, enc)
}

// ToStringUTF8 decodes the slice as UTF-8, replacing invalid sequences with
// U+FFFD.
func (s *Slice) ToStringUTF8() string {
	str, _ := s.ToStringRange(0, s.size, unicode.UTF8)
	return str
}

func (s *Slice) ToStringRange(index, length int, enc encoding.Encoding) (string, error) {
	if length == 0 {
		return "", nil
	}
	if err := s.checkIndexLength(index, length); err != nil {
		return "", err
	}
	if enc == nil {
		enc = unicode.UTF8
	}
	// managed slices decode straight from the backing array, raw memory
	// through an aliasing []byte
	var src []byte
	if s.base != nil {
		start := s.offset + index
		src = s.base[start : start+length]
	} else {
		src = bytesAt(unsafe.Add(s.addr, index), length)
	}
	out, err := enc.NewDecoder().Bytes(src)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *Slice) String() string {
	if s.base != nil {
		return fmt.Sprintf("Slice{base=[]byte@%p, address=%d, length=%d}", unsafe.SliceData(s.base), s.offset, s.size)
	}
	return fmt.Sprintf("Slice{address=%#x, length=%d}", uintptr(s.addr), s.size)
}

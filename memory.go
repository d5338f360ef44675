package slice

import (
	"encoding/binary"
	"unsafe"
)

// Raw access primitives. Every read or write a Slice performs on its region
// goes through this file; callers must have validated the range first.

func bytesAt(p unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(p), n)
}

func load8(p unsafe.Pointer) byte {
	return *(*byte)(p)
}

func load16(p unsafe.Pointer) uint16 {
	return binary.LittleEndian.Uint16(bytesAt(p, 2))
}

func load32(p unsafe.Pointer) uint32 {
	return binary.LittleEndian.Uint32(bytesAt(p, 4))
}

func load64(p unsafe.Pointer) uint64 {
	return binary.LittleEndian.Uint64(bytesAt(p, 8))
}

// loadWord reads a machine word in host order. Only equality may be derived
// from the result.
func loadWord(p unsafe.Pointer) uint64 {
	return binary.NativeEndian.Uint64(bytesAt(p, 8))
}

// loadWordBE reads 8 bytes as a big-endian value so that unsigned integer
// order matches lexicographic byte order.
func loadWordBE(p unsafe.Pointer) uint64 {
	return binary.BigEndian.Uint64(bytesAt(p, 8))
}

func store8(p unsafe.Pointer, v byte) {
	*(*byte)(p) = v
}

func store16(p unsafe.Pointer, v uint16) {
	binary.LittleEndian.PutUint16(bytesAt(p, 2), v)
}

func store32(p unsafe.Pointer, v uint32) {
	binary.LittleEndian.PutUint32(bytesAt(p, 4), v)
}

func store64(p unsafe.Pointer, v uint64) {
	binary.LittleEndian.PutUint64(bytesAt(p, 8), v)
}

// copyMemory moves n bytes from src to dst as an 8-byte aligned block plus a
// 0-7 byte tail. If dst starts after src the tail goes first so overlapping
// ranges behave like memmove.
func copyMemory(dst, src unsafe.Pointer, n int) {
	if n <= 0 || dst == src {
		return
	}
	block := n &^ 7
	tail := n - block
	if uintptr(dst) > uintptr(src) {
		if tail > 0 {
			copy(bytesAt(unsafe.Add(dst, block), tail), bytesAt(unsafe.Add(src, block), tail))
		}
		if block > 0 {
			copy(bytesAt(dst, block), bytesAt(src, block))
		}
		return
	}
	if block > 0 {
		copy(bytesAt(dst, block), bytesAt(src, block))
	}
	if tail > 0 {
		copy(bytesAt(unsafe.Add(dst, block), tail), bytesAt(unsafe.Add(src, block), tail))
	}
}

// fillLong replicates v into every lane of a 64-bit word.
func fillLong(v byte) uint64 {
	return uint64(v) * 0x0101010101010101
}

func fillMemory(p unsafe.Pointer, n int, v byte) {
	word := fillLong(v)
	off := 0
	for n-off >= 8 {
		binary.NativeEndian.PutUint64(bytesAt(unsafe.Add(p, off), 8), word)
		off += 8
	}
	for ; off < n; off++ {
		store8(unsafe.Add(p, off), v)
	}
}

//go:build unix

package slice

import (
	"fmt"
	"math"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mapping owns a region of memory obtained from mmap(2), outside the Go heap.
// Slices handed out by a Mapping hold it as their reference but do not keep
// the memory valid after Close; every such slice must be dropped first.
type Mapping struct {
	mu       sync.Mutex
	data     []byte
	readOnly bool
	closed   bool
}

// MapAnonymous maps size bytes of zeroed, private, read-write memory.
func MapAnonymous(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size: %d", ErrInvalidSlice, size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap anonymous %d bytes: %w", size, err)
	}
	return &Mapping{data: data}, nil
}

// MapFile maps the whole file at path read-only. Writing through a slice of
// a read-only mapping faults.
func MapFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size, err := mapSize(fi.Size(), math.MaxInt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &Mapping{data: data, readOnly: true}, nil
}

// mapSize converts a file size to a mapping length no larger than limit.
func mapSize(size, limit int64) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: cannot map empty file", ErrInvalidSlice)
	}
	if size > limit {
		return 0, fmt.Errorf("%w: file size %d exceeds %d", ErrInvalidSlice, size, limit)
	}
	return int(size), nil
}

// Len returns the mapped size in bytes, or 0 once closed.
func (m *Mapping) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *Mapping) ReadOnly() bool {
	return m.readOnly
}

// Slice returns a view over the whole mapping addressed by absolute pointer.
func (m *Mapping) Slice() (*Slice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, fmt.Errorf("%w: mapping is closed", ErrInvalidSlice)
	}
	return WrapPointer(unsafe.Pointer(unsafe.SliceData(m.data)), len(m.data), m)
}

// Close unmaps the region. It is safe to call more than once.
func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	return unix.Munmap(data)
}

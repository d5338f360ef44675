package slice

import (
	"errors"
	"io"
	"unsafe"
)

const (
	// EndOfStream is returned by SetBytesFrom when the reader was exhausted
	// before a single byte arrived.
	EndOfStream = -1

	streamBufferSize         = 4096
	maxConsecutiveEmptyReads = 100
)

// SetBytesFrom reads up to length bytes from r into the slice starting at
// index. It stops early when r reports io.EOF and returns the number of bytes
// transferred, or EndOfStream if there were none. Bytes beyond the transfer
// are left as they were. Any other error from r is returned as is.
func (s *Slice) SetBytesFrom(index int, r io.Reader, length int) (int, error) {
	if err := s.checkIndexLength(index, length); err != nil {
		return 0, err
	}
	if length == 0 {
		return 0, nil
	}
	buf := make([]byte, streamBufferSize)
	remaining := length
	empty := 0
	for remaining > 0 {
		n, err := r.Read(buf[:min(len(buf), remaining)])
		if n > 0 {
			copyMemory(s.ptr(index), unsafe.Pointer(&buf[0]), n)
			remaining -= n
			index += n
			empty = 0
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if remaining == length {
					return EndOfStream, nil
				}
				break
			}
			return length - remaining, err
		}
		if n == 0 {
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return length - remaining, io.ErrNoProgress
			}
		}
	}
	return length - remaining, nil
}

// GetBytesTo writes length bytes starting at index to w.
func (s *Slice) GetBytesTo(index int, w io.Writer, length int) error {
	if err := s.checkIndexLength(index, length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	buf := make([]byte, streamBufferSize)
	for length > 0 {
		size := min(len(buf), length)
		copyMemory(unsafe.Pointer(&buf[0]), s.ptr(index), size)
		if _, err := w.Write(buf[:size]); err != nil {
			return err
		}
		length -= size
		index += size
	}
	return nil
}

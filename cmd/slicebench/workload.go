package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/slice"
)

type Result struct {
	Name    string
	Bytes   int64
	Elapsed time.Duration
}

func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Bytes) / r.Elapsed.Seconds() / (1 << 20)
}

// region returns a slice of n bytes along with a release func. Mapped
// regions come from anonymous mmap memory.
func region(n int, mapped bool) (*slice.Slice, func(), error) {
	if !mapped {
		s, err := slice.Allocate(n)
		return s, func() {}, err
	}
	m, err := slice.MapAnonymous(n)
	if err != nil {
		return nil, nil, err
	}
	s, err := m.Slice()
	if err != nil {
		m.Close()
		return nil, nil, err
	}
	return s, func() { m.Close() }, nil
}

func Run(w Workload) (Result, error) {
	src, release, err := region(w.Size, w.Mapped)
	if err != nil {
		return Result{}, err
	}
	defer release()
	for i := 0; i+8 <= w.Size; i += 8 {
		if err := src.SetUint64(i, uint64(i)*0x9E3779B97F4A7C15); err != nil {
			return Result{}, err
		}
	}
	dst, err := slice.Allocate(w.Size)
	if err != nil {
		return Result{}, err
	}
	if err := dst.SetBytes(0, src); err != nil {
		return Result{}, err
	}

	res := Result{Name: w.Name, Bytes: int64(w.Size) * int64(w.Iterations)}
	start := time.Now()
	switch w.Kind {
	case "copy":
		for i := 0; i < w.Iterations; i++ {
			if err := dst.SetBytes(0, src); err != nil {
				return res, err
			}
		}
	case "compare":
		for i := 0; i < w.Iterations; i++ {
			if src.Compare(dst) != 0 || !src.Equal(dst) {
				return res, errors.New("compare: copies differ")
			}
		}
	case "hash":
		for i := 0; i < w.Iterations; i++ {
			if _, err := src.HashRange(0, w.Size); err != nil {
				return res, err
			}
		}
	case "fill":
		for i := 0; i < w.Iterations; i++ {
			dst.Fill(byte(i))
		}
	case "stream":
		if err := streamRoundTrip(src, dst, w.Iterations); err != nil {
			return res, err
		}
	default:
		return res, fmt.Errorf("%w %q", errUnknownKind, w.Kind)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// streamRoundTrip pushes src through a zstd encoder and decodes it back into
// dst, checking the contents survive.
func streamRoundTrip(src, dst *slice.Slice, iterations int) error {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	defer enc.Close()
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	for i := 0; i < iterations; i++ {
		buf.Reset()
		enc.Reset(&buf)
		if err := src.GetBytesTo(0, enc, src.Len()); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		if err := dec.Reset(&buf); err != nil {
			return err
		}
		dst.Clear()
		n, err := dst.SetBytesFrom(0, dec, dst.Len())
		if err != nil {
			return err
		}
		if n != src.Len() || !dst.Equal(src) {
			return fmt.Errorf("stream: got %d bytes, want %d", n, src.Len())
		}
	}
	return nil
}

//go:build unix

package slice

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapAnonymous(t *testing.T) {
	m, err := MapAnonymous(8192)
	require.NoError(t, err)
	defer m.Close()
	require.Equal(t, 8192, m.Len())
	require.False(t, m.ReadOnly())

	s, err := m.Slice()
	require.NoError(t, err)
	require.Equal(t, 8192, s.Len())
	require.Nil(t, s.UnsafeBase())
	require.NotZero(t, s.UnsafeAddress())
	require.Same(t, m, s.Reference())

	// fresh anonymous pages are zero
	zero, err := Allocate(8192)
	require.NoError(t, err)
	require.True(t, s.Equal(zero))

	require.NoError(t, s.SetInt64(4096, -42))
	sub, err := s.Slice(4096, 8)
	require.NoError(t, err)
	require.Same(t, m, sub.Reference())
	v, err := sub.GetInt64(0)
	require.NoError(t, err)
	require.Equal(t, int64(-42), v)

	require.NoError(t, s.SetBytesFromArray(10, []byte("unmanaged")))
	str, err := s.ToStringRange(10, 9, nil)
	require.NoError(t, err)
	require.Equal(t, "unmanaged", str)

	managed := mustWrap(t, []byte("unmanaged"))
	text, err := s.Slice(10, 9)
	require.NoError(t, err)
	require.True(t, text.Equal(managed))
	require.Zero(t, text.Compare(managed))
	require.Equal(t, managed.Hash(), text.Hash())

	s.Fill(0x11)
	b, err := s.GetUnsignedByte(8191)
	require.NoError(t, err)
	require.Equal(t, 0x11, b)

	_, err = s.GetByte(8192)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestMapAnonymousInvalid(t *testing.T) {
	_, err := MapAnonymous(0)
	require.ErrorIs(t, err, ErrInvalidSlice)
}

func TestMappingClose(t *testing.T) {
	m, err := MapAnonymous(4096)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.Zero(t, m.Len())
	_, err = m.Slice()
	require.ErrorIs(t, err, ErrInvalidSlice)
}

func TestMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("mapped file contents"), 0o600))

	m, err := MapFile(path)
	require.NoError(t, err)
	defer m.Close()
	require.True(t, m.ReadOnly())

	s, err := m.Slice()
	require.NoError(t, err)
	require.Equal(t, "mapped file contents", s.ToStringUTF8())
	word, err := s.Slice(7, 4)
	require.NoError(t, err)
	require.Equal(t, "file", word.ToStringUTF8())

	empty := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = MapFile(empty)
	require.ErrorIs(t, err, ErrInvalidSlice)

	_, err = MapFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMapSize(t *testing.T) {
	n, err := mapSize(4096, math.MaxInt)
	require.NoError(t, err)
	require.Equal(t, 4096, n)

	_, err = mapSize(0, math.MaxInt)
	require.ErrorIs(t, err, ErrInvalidSlice)

	// a 2 GiB file on a host with 32-bit ints
	_, err = mapSize(1<<31, math.MaxInt32)
	require.ErrorIs(t, err, ErrInvalidSlice)
	n, err = mapSize(math.MaxInt32, math.MaxInt32)
	require.NoError(t, err)
	require.Equal(t, math.MaxInt32, n)
}

//go:build !unix

package slice

type Mapping struct{}

func MapAnonymous(size int) (*Mapping, error) { return nil, ErrUnsupported }

func MapFile(path string) (*Mapping, error) { return nil, ErrUnsupported }

func (m *Mapping) Len() int { return 0 }

func (m *Mapping) ReadOnly() bool { return false }

func (m *Mapping) Slice() (*Slice, error) { return nil, ErrUnsupported }

func (m *Mapping) Close() error { return nil }

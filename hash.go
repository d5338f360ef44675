package slice

import "github.com/cespare/xxhash/v2"

// Hasher computes a 64-bit content hash of data.
type Hasher func(data []byte) uint64

// DefaultHasher is xxHash64 with a zero seed.
var DefaultHasher Hasher = xxhash.Sum64

package rt

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/zeebo/xxh3"
)

// HashBytes hashes a byte slice. Value classes use it so that equal
// contents hash equally regardless of which instance holds them.
func HashBytes(b []byte) uint64 {
	return xxh3.Hash(b)
}

// HashString hashes a string; it agrees with HashBytes on the same bytes.
func HashString(s string) uint64 {
	return xxh3.HashString(s)
}

// HashUint64 hashes a 64-bit integer.
func HashUint64(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return xxh3.Hash(b[:])
}

// HashFloat64 hashes a float so that integral values hash like the
// corresponding integer and all NaNs hash alike.
func HashFloat64(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return HashUint64(0x7ff8000000000001)
	case f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64:
		return HashUint64(uint64(int64(f)))
	}
	return HashUint64(math.Float64bits(f))
}

// CombineHash mixes an element hash into an accumulated one; collections
// use it for order-sensitive hashes.
func CombineHash(acc, h uint64) uint64 {
	return HashUint64(acc*31 + h)
}

// addressHash derives a hash from the header address. Go heap objects do not
// move, so the value is stable for the life of the instance.
func addressHash(h *Header) uint64 {
	return HashUint64(uint64(uintptr(unsafe.Pointer(h))))
}

package lphash

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher is implemented by key types that supply their own hash. Keys that
// compare equal with == must return the same hash.
type Hasher interface {
	Hash() uint64
}

// hashKey computes the unsigned 64-bit hash of key. Strings and integers go
// through xxhash, Hasher keys hash themselves, and any other comparable
// type falls back to maphash so that hashing agrees with ==.
func hashKey[K comparable](seed maphash.Seed, key K) uint64 {
	switch k := any(key).(type) {
	case Hasher:
		return k.Hash()
	case string:
		return xxhash.Sum64String(k)
	case int:
		return hashUint64(uint64(k))
	case int8:
		return hashUint64(uint64(k))
	case int16:
		return hashUint64(uint64(k))
	case int32:
		return hashUint64(uint64(k))
	case int64:
		return hashUint64(uint64(k))
	case uint:
		return hashUint64(uint64(k))
	case uint8:
		return hashUint64(uint64(k))
	case uint16:
		return hashUint64(uint64(k))
	case uint32:
		return hashUint64(uint64(k))
	case uint64:
		return hashUint64(k)
	case uintptr:
		return hashUint64(uint64(k))
	}
	return maphash.Comparable(seed, key)
}

func hashUint64(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return xxhash.Sum64(buf[:])
}

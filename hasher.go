package gohamt

import (
	"bytes"

	"github.com/mvkara/gohamt/common/murmur"
)


//============================================= gohamt Equality Provider


// Hasher
//	The equality provider a Map is parameterized over. Hash need not be
//	cryptographically strong, only well distributed across its 32 bits,
//	since the trie consumes it 5 bits at a time from the low end. Equal is
//	the authority on key identity: two keys with the same Hash must still
//	be compared with Equal before they are treated as the same entry.
type Hasher[K any] interface {
	Hash(key K) uint32
	Equal(a, b K) bool
}


//============================================= Default Hashers


// BytesHasher
//	Hashes []byte keys with the package's Murmur3 32-bit implementation.
type BytesHasher struct{}

func (BytesHasher) Hash(key []byte) uint32 {
	return murmur.Murmur32(key, 1)
}

func (BytesHasher) Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}


// StringHasher
//	Hashes string keys by delegating to the same Murmur3 pass BytesHasher uses.
type StringHasher struct{}

func (StringHasher) Hash(key string) uint32 {
	return murmur.Murmur32([]byte(key), 1)
}

func (StringHasher) Equal(a, b string) bool {
	return a == b
}


// Int64Hasher
//	Folds a 64-bit key into 32 bits by XORing its high and low halves. Cheap,
//	branch-free, and good enough for the dense small-magnitude integer keys
//	this hasher is meant for — a full avalanche mix is unnecessary overhead
//	when the input already varies across all of its bits.
type Int64Hasher struct{}

func (Int64Hasher) Hash(key int64) uint32 {
	u := uint64(key)
	return uint32(u) ^ uint32(u>>32)
}

func (Int64Hasher) Equal(a, b int64) bool {
	return a == b
}


// IntHasher
//	Same fold as Int64Hasher, widened from the platform int.
type IntHasher struct{}

func (IntHasher) Hash(key int) uint32 {
	u := uint64(int64(key))
	return uint32(u) ^ uint32(u>>32)
}

func (IntHasher) Equal(a, b int) bool {
	return a == b
}

// Package digest implements the two name-hashing functions used throughout
// the format: FNV-1a-32 and XXH64, both folding ASCII uppercase to lowercase
// before mixing each byte. Go has no standard library XXH64, so the 64-bit
// hash is computed by folding the input and delegating to
// github.com/cespare/xxhash/v2, which implements the same algorithm with
// seed 0.
package digest

import "github.com/cespare/xxhash/v2"

const (
	fnv1aSeed  uint32 = 0x811C9DC5
	fnv1aPrime uint32 = 0x01000193
)

// foldASCII lowercases A-Z in place on a copy of b, leaving every other byte
// (including non-ASCII) untouched.
func foldASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

// FNV1a computes the FNV-1a-32 digest of s after ASCII-lowercase folding.
func FNV1a(s string) uint32 {
	h := fnv1aSeed
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h = (h ^ uint32(c)) * fnv1aPrime
	}
	return h
}

// XXH64 computes the XXH64 digest (seed 0) of s after ASCII-lowercase
// folding of every byte.
func XXH64(s string) uint64 {
	return xxhash.Sum64(foldASCII([]byte(s)))
}

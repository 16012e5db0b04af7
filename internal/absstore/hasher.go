package absstore

import "github.com/benbjohnson/immutable"

// stringHasher hashes variable names for the persistent map backing
// Store. Variable names are plain Go strings, so hashing and equality
// both reduce to the builtin string operations; FNV-1a keeps the
// distribution reasonable without pulling in a table-keyed hasher.
type stringHasher struct{}

func (stringHasher) Hash(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func (stringHasher) Equal(a, b string) bool { return a == b }

var varHasher immutable.Hasher[string] = stringHasher{}

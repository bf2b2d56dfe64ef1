// Package shardkey hashes timeline keys for shard assignment and turns them
// into filesystem-safe directory names.
package shardkey

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Hash computes the xxHash64 of a timeline key.
//
// This is used purely for shard placement, not identity: two different keys
// landing in the same hash bucket only means they share a shard's lock and
// map, never that they are treated as the same timeline. The shard's map is
// still keyed by the original string.
func Hash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// ShardIndex returns the index of the shard that owns key, in [0, shardCount).
func ShardIndex(key string, shardCount int) int {
	if shardCount <= 0 {
		return 0
	}

	return int(Hash(key) % uint64(shardCount))
}

// DirName returns a filesystem-safe directory leaf for a timeline key.
//
// Keys may contain characters that are awkward or unsafe as path components
// (slashes, control characters, ".."). Rather than reject or escape them,
// every key is hex-encoded, so DirName is a total, injective function from
// key to directory name and never needs to reject input.
func DirName(key string) string {
	return hex.EncodeToString([]byte(key))
}

// KeyFromDirName reverses DirName. It returns false if name is not valid
// hex, which indicates a directory that was not created by DirName.
func KeyFromDirName(name string) (string, bool) {
	b, err := hex.DecodeString(name)
	if err != nil {
		return "", false
	}

	return string(b), true
}

// Package cache stores rendered schedules keyed by a fingerprint of the inputs
// they were computed from. Entries are never invalidated explicitly: a changed
// input produces a different key and the old entry expires on its own.
package cache

import (
	"context"
	"encoding/binary"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a namespaced cache key from an xxhash digest of the parts. Parts
// are length-prefixed so ("ab","c") and ("a","bc") never collide.
func Key(namespace string, parts ...[]byte) string {
	d := xxhash.New()
	var size [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(size[:], uint64(len(p)))
		_, _ = d.Write(size[:])
		_, _ = d.Write(p)
	}
	return namespace + ":" + strconv.FormatUint(d.Sum64(), 16)
}

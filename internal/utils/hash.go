package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool holds HMAC-SHA256 instances keyed with the configured hash key.
// Both ends of the collection transport share one key per process, so a
// single pool is enough. InitHasherPool must run before Hash.
var hasherPool sync.Pool

// InitHasherPool (re)keys the pool used by [Hash], [HashValue] and
// [VerifyValue]. Calling it again with another key replaces the pool.
func InitHasherPool(hashKey string) {
	key := []byte(hashKey)
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, key)
		},
	}
}

// Hash returns the raw HMAC-SHA256 digest of data.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(h)

	h.Reset()
	h.Write(data)
	return h.Sum(nil)
}

// HashValue returns the hex digest sent next to a collection value on Set.
// The digest covers the value text byte for byte.
func HashValue(value string) string {
	return hex.EncodeToString(Hash([]byte(value)))
}

// VerifyValue reports whether sum is the hex digest of value. The comparison
// runs in constant time; a sum that is not valid hex never matches.
func VerifyValue(value, sum string) bool {
	decoded, err := hex.DecodeString(sum)
	if err != nil {
		return false
	}
	return hmac.Equal(Hash([]byte(value)), decoded)
}

// HashString hashes data with an explicit key, bypassing the pool. Tests use
// it to compute expected digests.
func HashString(data string, hashKey string) string {
	mac := hmac.New(sha256.New, []byte(hashKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

package shard

import (
	"crypto/sha1"
	"math/big"
	"strings"
)

// HashTag returns the part of key used for routing
// If key holds a '{' followed later by a '}', the text strictly between the
// first '{' and the first '}' after it is used; otherwise the whole key.
func HashTag(key string) string {
	start := strings.IndexByte(key, '{')
	if start < 0 {
		return key
	}
	end := strings.IndexByte(key[start+1:], '}')
	if end < 0 {
		return key
	}
	return key[start+1 : start+1+end]
}

// Index maps key to a shard position in [0, numShards)
// The SHA-1 digest of the hash tag is read as a big-endian unsigned integer
// and reduced modulo numShards. Changing this reshards every stored key.
func Index(key string, numShards int) int {
	if numShards <= 0 {
		return -1
	}
	sum := sha1.Sum([]byte(HashTag(key)))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, big.NewInt(int64(numShards))).Int64())
}

// Package cryptox hashes media payloads into content-addressed digests.
package cryptox

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the length in bytes of a payload digest.
const DigestSize = blake2b.Size256

// PayloadDigest returns the BLAKE2b-256 digest of data.
func PayloadDigest(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// DigestHex is PayloadDigest in lowercase hex.
func DigestHex(data []byte) string {
	return hex.EncodeToString(PayloadDigest(data))
}

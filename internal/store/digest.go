package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainAsset separates asset digests from any other hash in the system.
// The version suffix allows the algorithm to change later.
const DomainAsset = "svgo/asset/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the content digest stored alongside an asset source.
func Digest(source string) string {
	return hashWithDomain(DomainAsset, []byte(source))
}

package common

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"math"
)

// FileDigest holds content hashes and the Shannon entropy of a buffer.
type FileDigest struct {
	Size    int
	MD5     string
	SHA1    string
	SHA256  string
	Entropy float64
}

// DigestBuffer hashes the buffer and measures its entropy.
func DigestBuffer(data []byte) FileDigest {
	md5Hash := md5.Sum(data)
	sha1Hash := sha1.Sum(data)
	sha256Hash := sha256.Sum256(data)
	return FileDigest{
		Size:    len(data),
		MD5:     fmt.Sprintf("%x", md5Hash),
		SHA1:    fmt.Sprintf("%x", sha1Hash),
		SHA256:  fmt.Sprintf("%x", sha256Hash),
		Entropy: CalculateEntropy(data),
	}
}

// IsLikelyPacked reports whether the entropy suggests packed or encrypted
// content.
func (d FileDigest) IsLikelyPacked() bool {
	return d.Entropy > 7.0
}

// CalculateEntropy computes the Shannon entropy of the data in bits per byte.
func CalculateEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}
	freq := make([]int, 256)
	for _, b := range data {
		freq[b]++
	}
	entropy := 0.0
	length := float64(len(data))
	for _, count := range freq {
		if count > 0 {
			p := float64(count) / length
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

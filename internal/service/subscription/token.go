package subscription

import (
	"crypto/rand"
	"fmt"
)

const (
	tokenLength   = 25
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateToken produces a single-use confirmation token: 25 characters drawn
// uniformly from [A-Za-z0-9] (~128 bits of entropy) using the OS CSPRNG.
func GenerateToken() (string, error) {
	// 248 is the largest multiple of 62 that fits in a byte; bytes at or
	// above it are rejected to keep the draw uniform.
	const limit = byte(len(tokenAlphabet) * (256 / len(tokenAlphabet)))

	out := make([]byte, 0, tokenLength)
	buf := make([]byte, 32)
	for len(out) < tokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == tokenLength {
				break
			}
		}
	}
	return string(out), nil
}

package crypto

import "crypto/rand"

// SessionTokenLen is the exact length of issued session tokens.
const SessionTokenLen = 255

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewSessionToken returns a 255-character alphanumeric token from a
// cryptographically secure source.
func NewSessionToken() (string, error) {
	// Rejection sampling keeps the alphabet distribution uniform.
	const max = byte(len(tokenAlphabet)) * 4 // 248, largest multiple of 62 below 256 is 248
	out := make([]byte, 0, SessionTokenLen)
	buf := make([]byte, SessionTokenLen)
	for len(out) < SessionTokenLen {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == SessionTokenLen {
				break
			}
		}
	}
	return string(out), nil
}

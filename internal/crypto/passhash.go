// Package crypto implements server-side password hashing and session token generation.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"

	"github.com/olmmcc/union/internal/errs"
)

// scrypt parameters: deliberately slow enough to resist brute force,
// bounded enough for interactive login.
const (
	scryptLogN   = 12 // N = 2^12
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

var b64 = base64.RawStdEncoding

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword derives an scrypt hash with a fresh random salt and returns
// a self-contained PHC-style string: $scrypt$ln=12,r=8,p=1$<salt>$<key>.
// Verification needs nothing beyond the returned value.
func HashPassword(password string) (string, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), salt, 1<<scryptLogN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("$scrypt$ln=%d,r=%d,p=%d$%s$%s",
		scryptLogN, scryptR, scryptP, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword re-derives the key for password using the salt and
// parameters embedded in encoded and compares in constant time.
// A hash that cannot be decoded yields errs.ErrMalformedHash: that is
// store corruption, distinct from a wrong password.
func VerifyPassword(password, encoded string) (bool, error) {
	logN, r, p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	got, err := scrypt.Key([]byte(password), salt, 1<<logN, r, p, len(key))
	if err != nil {
		return false, fmt.Errorf("%w: %v", errs.ErrMalformedHash, err)
	}
	return subtle.ConstantTimeCompare(got, key) == 1, nil
}

func decodeHash(encoded string) (logN, r, p int, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "scrypt" {
		return 0, 0, 0, nil, nil, errs.ErrMalformedHash
	}
	if _, err := fmt.Sscanf(parts[2], "ln=%d,r=%d,p=%d", &logN, &r, &p); err != nil {
		return 0, 0, 0, nil, nil, errs.ErrMalformedHash
	}
	if logN <= 0 || logN > 30 || r <= 0 || p <= 0 {
		return 0, 0, 0, nil, nil, errs.ErrMalformedHash
	}
	if salt, err = b64.DecodeString(parts[3]); err != nil {
		return 0, 0, 0, nil, nil, errs.ErrMalformedHash
	}
	if key, err = b64.DecodeString(parts[4]); err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, errs.ErrMalformedHash
	}
	return logN, r, p, salt, key, nil
}

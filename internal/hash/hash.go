// Package hash signs and verifies payloads with HMAC-SHA256.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrHashMismatch = errors.New("hash mismatch")

// CalculateHash returns the hex HMAC-SHA256 of data, or "" when key is empty.
func CalculateHash(data, key string) string {
	if key == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHash accepts anything when key is empty.
func VerifyHash(data, key, hash string) error {
	if key == "" {
		return nil
	}
	if !hmac.Equal([]byte(CalculateHash(data, key)), []byte(hash)) {
		return ErrHashMismatch
	}
	return nil
}

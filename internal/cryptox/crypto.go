// Package cryptox implements the one-way password hash stored with users.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// HashPassword derives a hex-encoded argon2id hash of password keyed by the
// process-wide secret. The result is deterministic for a given secret, so a
// login attempt is checked by hashing again and comparing with Equal.
//
// Parameters:
//   - password: the plain-text password as received from the client.
//   - secret: the hashing secret from config, used as the argon2 salt.
//
// Returns:
//   - a 64-character lowercase hex string (32-byte key).
//
// Example:
//
//	stored := cryptox.HashPassword("secret1", []byte(cfg.HashingSecret))
//	ok := cryptox.Equal(cryptox.HashPassword(attempt, secret), stored)
func HashPassword(password string, secret []byte) string {
	key := argon2.IDKey([]byte(password), secret, 1, 64*1024, 4, 32)
	return hex.EncodeToString(key)
}

// Equal reports whether two hashes match, in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

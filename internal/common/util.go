package common

import (
	"crypto/rand"
	"math/big"
)

// alphabet is the character set used for token and check ids.
const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// MakeRandString returns a string of n characters drawn uniformly from
// [a-z0-9] using crypto/rand.
func MakeRandString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		// rand.Int is uniform over [0, max), no modulo bias.
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

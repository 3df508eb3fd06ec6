package common

import (
	"crypto/rand"
	"math/big"
)

// alphanumeric is the alphabet used for public share tokens.
const alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MakeRandAlnumString returns a random string of n characters drawn
// uniformly from [0-9a-zA-Z] using crypto/rand.
func MakeRandAlnumString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}

	limit := big.NewInt(int64(len(alphanumeric)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}

package util

import (
	"crypto/rand"
	"math/big"
)

const usernameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUsername returns "user_" followed by n random lowercase alphanumerics
func GenerateUsername(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(usernameAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = usernameAlphabet[idx.Int64()]
	}
	return "user_" + string(buf), nil
}

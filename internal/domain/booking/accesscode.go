package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	accessCodeLength   = 6
	accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewAccessCode returns a random 6-character code from [A-Z0-9].
func NewAccessCode() (string, error) {
	alphabet := big.NewInt(int64(len(accessCodeAlphabet)))
	buf := make([]byte, accessCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", fmt.Errorf("generate access code: %w", err)
		}
		buf[i] = accessCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

package security

import (
	"crypto/rand"
	"math/big"
)

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ShortIDLength is the fixed length of context short ids.
const ShortIDLength = 8

// NewShortID draws each character uniformly from the lowercase
// alphanumeric alphabet using crypto/rand.
func NewShortID() (string, error) {
	max := big.NewInt(int64(len(shortIDAlphabet)))
	buf := make([]byte, ShortIDLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = shortIDAlphabet[n.Int64()]
	}
	return string(buf), nil
}

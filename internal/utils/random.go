package utils

import (
	"crypto/rand"
	"math/big"
)

// RandomDigits returns n decimal digits drawn from crypto/rand.  The
// first digit is never zero, so the result always has exactly n
// significant digits (10000000-99999999 for n = 8).
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	out := make([]byte, n)
	for i := range out {
		max := int64(10)
		base := byte('0')
		if i == 0 {
			max, base = 9, '1'
		}
		v, err := rand.Int(rand.Reader, big.NewInt(max))
		if err != nil {
			return "", err
		}
		out[i] = base + byte(v.Int64())
	}
	return string(out), nil
}

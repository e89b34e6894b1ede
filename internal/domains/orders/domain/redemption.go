package domain

import (
	"crypto/rand"
	"math/big"
)

// redemptionCodeLength matches the numeric codes handed to pickup counters.
const redemptionCodeLength = 12

// NewRedemptionCode generates a candidate single-use redemption code.
// Uniqueness across all order lines is enforced by the caller, which retries
// generation until the persistence boundary reports no collision.
func NewRedemptionCode() string {
	digits := make([]byte, redemptionCodeLength)
	max := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; a zero digit keeps the code well-formed.
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}

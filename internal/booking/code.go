// internal/booking/code.go
package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const reservationCodeLength = 6

var ten = big.NewInt(10)

// NewReservationCode returns a 6-digit numeric code with each digit drawn
// independently and uniformly from a cryptographically secure source.
// Leading zeros are allowed. Codes are a front-desk lookup aid, not a key:
// collisions are possible and deliberately not checked.
func NewReservationCode() (string, error) {
	digits := make([]byte, reservationCodeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate reservation code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

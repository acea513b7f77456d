package auth

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultPhoneRegion resolves national numbers given without a country code.
const defaultPhoneRegion = "ES"

// NormalizePhone validates a phone number and returns it in E.164 form. An
// empty input is allowed and returned as-is: the phone is optional at
// registration.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("invalid phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number")
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

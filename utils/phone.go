// utils/phone.go
package utils

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhoneNumber parses a user-supplied phone number and returns its
// canonical E.164 form. defaultRegion (e.g. "IN", "US") is used when the
// input carries no country prefix. The canonical string is the unique key
// for users, OTP codes and sessions, so the same input must always produce
// the same output.
func NormalizePhoneNumber(raw, defaultRegion string) (string, error) {
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// IsValidPhoneNumber reports whether raw parses as a valid number for the
// given default region.
func IsValidPhoneNumber(raw, defaultRegion string) bool {
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// DisplayPhoneNumber renders a canonical number in national format for
// dashboards. Falls back to the input when it cannot be parsed.
func DisplayPhoneNumber(canonical string) string {
	num, err := phonenumbers.Parse(canonical, "")
	if err != nil {
		return canonical
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}

package utils

import "strings"

const MaxMobileLen = 20

// IsValidMobile accepts digits with an optional leading '+', allowing spaces and dashes as separators.
func IsValidMobile(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxMobileLen {
		return false
	}

	var digits int
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= 5
}

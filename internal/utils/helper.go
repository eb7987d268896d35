package utils

import (
	"strconv"
	"strings"
)

func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	return uint(n), err
}

// NormalizePhone strips spaces and dashes and a leading "+98" or "0" so that
// the same subscriber always maps to the same local number.
func NormalizePhone(phone string) string {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	switch {
	case strings.HasPrefix(p, "+98"):
		p = p[3:]
	case strings.HasPrefix(p, "0098"):
		p = p[4:]
	case strings.HasPrefix(p, "0"):
		p = p[1:]
	}
	return p
}

// IsValidPhone reports whether phone is a 10 digit local mobile number.
func IsValidPhone(phone string) bool {
	if len(phone) != 10 || phone[0] != '9' {
		return false
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

package notification

import "strings"

const countryCode = "+234"

// NormalizePhone converts a locally formatted Nigerian number into
// international format. A leading trunk prefix 0 is replaced with the
// country code; numbers already carrying it pass through unchanged.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	switch {
	case phone == "":
		return ""
	case strings.HasPrefix(phone, countryCode):
		return phone
	case strings.HasPrefix(phone, "0"):
		return countryCode + phone[1:]
	default:
		return countryCode + phone
	}
}

package phone

import (
	"regexp"
	"strings"
)

// Indian mobile numbers: 10 digits, first digit 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// Normalize reduces any accepted spelling of a mobile number to the bare
// 10-digit national form: non-digits are stripped, then a "91" country
// prefix (12 digits total) or a leading zero (11 digits total) is removed.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		return cleaned[2:]
	}
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "0") {
		return cleaned[1:]
	}
	return cleaned
}

// IsValid reports whether mobile is a normalized 10-digit national number.
func IsValid(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

// NormalizeAndValidate normalizes raw and reports whether the result is a
// usable mobile number.
func NormalizeAndValidate(raw string) (string, bool) {
	normalized := Normalize(raw)
	return normalized, IsValid(normalized)
}

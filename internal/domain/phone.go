package domain

import "regexp"

var (
	phoneSeparatorsRe = regexp.MustCompile(`[\s\-()]`)
	phoneDigitsRe     = regexp.MustCompile(`^\d{8,15}$`)
)

// SanitizePhone strips common separators and a leading "+" from a phone
// number and validates the remainder as 8-15 digits. Returns false when the
// input cannot be normalized to a valid number.
func SanitizePhone(phone string) (string, bool) {
	cleaned := phoneSeparatorsRe.ReplaceAllString(phone, "")
	if len(cleaned) > 0 && cleaned[0] == '+' {
		cleaned = cleaned[1:]
	}
	if !phoneDigitsRe.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

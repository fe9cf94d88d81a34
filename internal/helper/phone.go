package helper

import "strings"

// NormalizePhone converts a phone number to E.164 form. Separators (spaces,
// dashes, parentheses) are stripped; numbers without a leading "+" are assumed
// to be Indian and get a "+91" prefix, unless the digits already start with the
// country code. The result is stable: normalizing twice yields the same string.
func NormalizePhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, phone)

	if cleaned == "" || strings.HasPrefix(cleaned, "+") {
		return cleaned
	}

	if strings.HasPrefix(cleaned, "91") {
		return "+" + cleaned
	}
	return "+91" + cleaned
}

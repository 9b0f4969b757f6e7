// Package whatsapp builds wa.me contact links from Brazilian phone numbers
// as vendors type them.
package whatsapp

import "strings"

const countryCode = "55"

// Link returns a WhatsApp deep link for the given phone number, or "" when
// the number has no digits. Formatting characters are stripped and the
// Brazilian country code is prepended.
func Link(phone string) string {
	digits := onlyDigits(phone)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + countryCode + digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

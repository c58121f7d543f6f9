// Package email holds the small address helpers shared by the recovery flow.
package email

import (
	"strings"
)

// Mask is the fixed-length replacement for the hidden part of a local part.
const Mask = "***"

// Normalize trims and lower-cases an address for comparison and storage.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MaskAddress reveals the first two characters of the local part and the
// domain, e.g. "ab***@example.com". Local parts shorter than two characters
// reveal what exists. An address without '@' is fully masked.
func MaskAddress(address string) string {
	at := strings.LastIndexByte(address, '@')
	if at < 0 {
		return Mask
	}
	local, domain := address[:at], address[at+1:]

	runes := []rune(local)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes) + Mask + "@" + domain
}

// LooksValid is the minimal shape check applied to claimed addresses.
func LooksValid(address string) bool {
	at := strings.LastIndexByte(address, '@')
	return at > 0 && at < len(address)-1 && !strings.ContainsAny(address, " \t\r\n")
}

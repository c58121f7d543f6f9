// Package device turns a raw client identifier into a short label for the
// attempt log.
package device

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// UnknownDevice is recorded when no client identifier was sent.
const UnknownDevice = "Unknown Device"

// maxIdentifierLen bounds what is parsed and stored from a client identifier.
const maxIdentifierLen = 512

// ParseUserAgent returns a display label such as "Chrome on Intel Mac OS X 10_15_7".
func ParseUserAgent(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return UnknownDevice
	}
	if len(userAgent) > maxIdentifierLen {
		userAgent = userAgent[:maxIdentifierLen]
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = "Unknown Browser"
	}

	os := strings.TrimSpace(ua.OS())
	if os == "" {
		os = strings.TrimSpace(ua.Platform())
	}
	if os == "" {
		os = "Unknown OS"
	}

	label := fmt.Sprintf("%s on %s", browser, os)
	if ua.Bot() {
		label += " (bot)"
	}
	return strings.Join(strings.Fields(label), " ")
}

// TruncateIdentifier bounds a raw client identifier before it is stored.
func TruncateIdentifier(userAgent string) string {
	if len(userAgent) > maxIdentifierLen {
		return userAgent[:maxIdentifierLen]
	}
	return userAgent
}

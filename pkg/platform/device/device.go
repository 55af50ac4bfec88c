// Package device derives a short human-readable device summary from the
// User-Agent header. Reveal requests are audited with the requesting device
// so holders can recognize disclosures they did not initiate.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Summarize extracts a display name from a User-Agent string.
// Returns format: "Browser on OS" (e.g., "Chrome on macOS", "Safari on iOS").
func Summarize(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}

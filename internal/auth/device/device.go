// Package device turns raw User-Agent strings into human-readable device
// names for request logs.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent returns a display name like "Chrome 120 on Mac OS X".
// Unrecognized agents still produce a stable "<something> on <something>"
// string rather than the raw header.
func ParseUserAgent(rawUA string) string {
	if rawUA == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)
	browser, version := ua.Browser()
	os := ua.OSInfo().Name

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	if major, _, ok := strings.Cut(version, "."); ok && major != "" {
		browser = browser + " " + major
	} else if version != "" {
		browser = browser + " " + version
	}

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			os = platform
		}
	}

	return browser + " on " + os
}

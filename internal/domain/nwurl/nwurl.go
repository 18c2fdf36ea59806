// Package nwurl provides address normalization and internal-scheme helpers.
package nwurl

import (
	"net/url"
	"strings"
)

// Scheme is the reserved prefix for pages rendered by the shell itself.
const Scheme = "neuralweb://"

// Internal page addresses.
const (
	PageHome      = Scheme + "home"
	PageSettings  = Scheme + "settings"
	PageDownloads = Scheme + "downloads"
	PageBookmarks = Scheme + "bookmarks"
	PageHistory   = Scheme + "history"

	// PageCrash deliberately kills its renderer shortly after creation to
	// exercise the crash recovery path. Unlike other internal pages it is
	// content-bearing and owns a real surface.
	PageCrash = Scheme + "crash"

	// PageCrashReport is the diagnostic page loaded after a renderer crash.
	// The pre-crash URL and failure reason travel as query parameters.
	PageCrashReport = Scheme + "crash-report"
)

// Normalize applies the address normalization policy: explicit internal or
// http(s) schemes pass through unchanged, anything else gets an https://
// prefix.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(input, Scheme):
		return input
	case strings.HasPrefix(input, "http://"):
		return input
	case strings.HasPrefix(input, "https://"):
		return input
	}

	return "https://" + input
}

// IsInternal reports whether the address uses the reserved internal scheme.
func IsInternal(address string) bool {
	return strings.HasPrefix(address, Scheme)
}

// IsContentBearing reports whether the address needs a rendering surface.
// All regular pages do; internal pages do not, except the crash test page.
func IsContentBearing(address string) bool {
	if !IsInternal(address) {
		return true
	}
	return internalPageName(address) == "crash"
}

// InternalTitle returns the display title for an internal page, or "" when
// the address is not internal.
func InternalTitle(address string) string {
	switch internalPageName(address) {
	case "home":
		return "Home"
	case "settings":
		return "Settings"
	case "downloads":
		return "Downloads"
	case "bookmarks":
		return "Bookmarks"
	case "history":
		return "History"
	case "crash":
		return "Crash Test"
	case "crash-report":
		return "Crash Report"
	}
	return ""
}

// internalPageName extracts the page name from an internal address,
// ignoring any path, query, or fragment.
func internalPageName(address string) string {
	if !IsInternal(address) {
		return ""
	}
	name := strings.TrimPrefix(address, Scheme)
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(name, sep); i >= 0 {
			name = name[:i]
		}
	}
	return name
}

// Hostname extracts the normalized hostname from a URL, stripping a
// leading "www.". Returns "" for internal, blank, or unparseable addresses.
func Hostname(rawURL string) string {
	if rawURL == "" || IsInternal(rawURL) || rawURL == "about:blank" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

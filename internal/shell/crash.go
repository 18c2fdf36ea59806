package shell

import (
	"net/url"
	"strings"

	"github.com/neuralweb/neuralweb/internal/domain/nwurl"
)

// BuildCrashReportURI builds the diagnostic page address for a crashed
// surface. The pre-crash URL and failure reason travel as query parameters
// so the report page can offer a reload.
func BuildCrashReportURI(preCrashURL, reason string) string {
	params := url.Values{}
	if preCrashURL != "" {
		params.Set("url", preCrashURL)
	}
	if reason != "" {
		params.Set("reason", reason)
	}
	if len(params) == 0 {
		return nwurl.PageCrashReport
	}
	return nwurl.PageCrashReport + "?" + params.Encode()
}

// ExtractOriginalURI recovers the pre-crash URL from a crash report
// address. Non-report addresses pass through unchanged.
func ExtractOriginalURI(reportURI string) string {
	if !strings.HasPrefix(reportURI, nwurl.PageCrashReport) {
		return reportURI
	}
	idx := strings.Index(reportURI, "?")
	if idx < 0 {
		return ""
	}
	params, err := url.ParseQuery(reportURI[idx+1:])
	if err != nil {
		return ""
	}
	return params.Get("url")
}

// ExtractCrashReason recovers the failure reason from a crash report
// address, or "" when absent.
func ExtractCrashReason(reportURI string) string {
	if !strings.HasPrefix(reportURI, nwurl.PageCrashReport) {
		return ""
	}
	idx := strings.Index(reportURI, "?")
	if idx < 0 {
		return ""
	}
	params, err := url.ParseQuery(reportURI[idx+1:])
	if err != nil {
		return ""
	}
	return params.Get("reason")
}

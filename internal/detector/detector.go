// Package detector provides static URL heuristics that flag likely
// web-security issues without touching the network.
package detector

import (
	"strings"

	"github.com/0x6d61/websentry/internal/engine"
)

// rule is a single heuristic check. Rules are evaluated independently and
// in declaration order, which fixes the order of the returned findings.
type rule struct {
	match   func(raw, lower string) bool
	finding engine.Finding
}

// scriptExtensions are server-side script suffixes checked against the URL
// path (the portion before any query string or fragment).
var scriptExtensions = []string{".php", ".asp", ".jsp"}

// sensitiveKeywords mark endpoints that usually deserve extra protection.
var sensitiveKeywords = []string{"admin", "login", "dashboard"}

// injectionPatterns are parameter names commonly targeted for SQL injection
// or local file inclusion. Matched case-sensitively against the raw URL.
var injectionPatterns = []string{"id=", "user=", "file=", "page="}

var rules = []rule{
	{
		match: func(raw, lower string) bool {
			return strings.Contains(lower, "http://") && !strings.Contains(lower, "localhost")
		},
		finding: engine.Finding{
			Type:           "Insecure Protocol",
			Severity:       engine.SeverityHigh,
			Description:    "Using HTTP instead of HTTPS exposes data in transit",
			Recommendation: "Always use HTTPS for secure communication",
		},
	},
	{
		match: func(raw, lower string) bool {
			path := lower
			if i := strings.IndexAny(path, "?#"); i >= 0 {
				path = path[:i]
			}
			for _, ext := range scriptExtensions {
				if strings.HasSuffix(path, ext) {
					return true
				}
			}
			return false
		},
		finding: engine.Finding{
			Type:           "Potential Server-Side Script",
			Severity:       engine.SeverityMedium,
			Description:    "Server-side scripts may be vulnerable to injection attacks",
			Recommendation: "Ensure proper input validation and sanitization",
		},
	},
	{
		match: func(raw, lower string) bool {
			for _, kw := range sensitiveKeywords {
				if strings.Contains(lower, kw) {
					return true
				}
			}
			return false
		},
		finding: engine.Finding{
			Type:           "Sensitive Endpoint Detected",
			Severity:       engine.SeverityMedium,
			Description:    "Admin or login endpoints should have extra security",
			Recommendation: "Implement rate limiting, 2FA, and strong authentication",
		},
	},
	{
		match: func(raw, lower string) bool {
			for _, p := range injectionPatterns {
				if strings.Contains(raw, p) {
					return true
				}
			}
			return false
		},
		finding: engine.Finding{
			Type:           "Potential Parameter Injection",
			Severity:       engine.SeverityHigh,
			Description:    "URL parameters may be vulnerable to SQL injection or LFI",
			Recommendation: "Use parameterized queries and validate all inputs",
		},
	},
}

// Detect runs all heuristic rules against the URL string and returns the
// findings in rule order. It is pure: no network access, no URL parsing or
// decoding, substring matching only. An empty URL yields no findings.
func Detect(rawURL string) []engine.Finding {
	lower := strings.ToLower(rawURL)

	var findings []engine.Finding
	for _, r := range rules {
		if r.match(rawURL, lower) {
			findings = append(findings, r.finding)
		}
	}
	return findings
}

package models

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	angleAddrPattern = regexp.MustCompile(`<(.+?)>`)
	nonDigitPattern  = regexp.MustCompile(`\D`)
)

// NormalizeEmail reduces a From header to a lowercase bare address.
// Display-name forms like `Jane Doe <Jane@Example.com>` become
// `jane@example.com`. The function is idempotent.
func NormalizeEmail(raw string) string {
	if raw == "" {
		return ""
	}
	if m := angleAddrPattern.FindStringSubmatch(raw); m != nil {
		return strings.ToLower(strings.TrimSpace(m[1]))
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseAmount extracts a numeric value from free-text money fields by
// stripping every non-digit character before parsing. "$450,000" parses
// to 450000, but "around $450k" parses to 450. Unparsable input yields
// zero, which match filters treat as "no constraint".
func ParseAmount(raw string) int {
	digits := nonDigitPattern.ReplaceAllString(raw, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

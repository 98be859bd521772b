package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var tickerRe = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,5}([.\-][A-Z0-9]{1,3})?$`)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// NormalizeTicker upper-cases and trims a symbol and reports whether it is well formed.
func NormalizeTicker(s string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(s))
	return t, tickerRe.MatchString(t)
}

// PadCIK left-pads a numeric identifier to the 10 digits used in disclosure URLs.
func PadCIK(cik string) (string, error) {
	cik = strings.TrimPrefix(strings.TrimSpace(strings.ToUpper(cik)), "CIK")
	n, err := strconv.ParseUint(cik, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid cik %q: %w", cik, err)
	}
	return fmt.Sprintf("%010d", n), nil
}

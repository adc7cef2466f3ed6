// Package utils holds small parsing helpers shared by the configuration
// loader and the HTTP layer. Nothing here knows about appointments.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty or
// not an integer.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("", 10)   // 10
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParseBool recognizes the usual switch spellings, case-insensitively and
// ignoring surrounding space: 1/true/yes/y/on and 0/false/no/n/off. ok is
// false for anything else.
func ParseBool(s string) (v, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

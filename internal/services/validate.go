package services

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	maxNameRunes  = 255
	maxPhoneRunes = 32
)

// checkDate accepts calendar dates in ISO form (YYYY-MM-DD).
func checkDate(field, s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return invalid(field, "must be a date in YYYY-MM-DD form")
	}
	return nil
}

// checkTime accepts 24-hour slot labels (HH:MM).
func checkTime(field, s string) error {
	if len(s) != len(timeLayout) {
		return invalid(field, "must be a time in HH:MM form")
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return invalid(field, "must be a time in HH:MM form")
	}
	return nil
}

// cleanText trims s and collapses internal runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func checkRequired(field, s string, max int) error {
	if s == "" {
		return invalid(field, "is required")
	}
	if utf8.RuneCountInString(s) > max {
		return invalid(field, "is too long")
	}
	return nil
}

package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var wsRe = regexp.MustCompile(`\s+`)

// ErrInvalidTimeFormat is returned when time parsing fails
var ErrInvalidTimeFormat = errors.New("invalid time format")

func NormalizeNameLower(s string) string {
	s = strings.TrimSpace(s)
	s = wsRe.ReplaceAllString(s, " ")
	return strings.ToLower(s)
}

// Fold lowercases s and strips diacritics so "Eğitim", "egitim" and
// "EGITIM " all compare equal. Used for spreadsheet header matching and
// training title lookup on import.
func Fold(s string) string {
	s = NormalizeNameLower(s)
	t := norm.NFKD.String(s)
	b := make([]rune, 0, len(t))
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b = append(b, r)
	}
	return string(b)
}

// TrimMax trims a string to a maximum length
func TrimMax(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// ParseTime parses a time string in RFC3339 or other common formats
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTimeFormat
}

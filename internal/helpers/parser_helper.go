package helpers

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders t as a calendar date in YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// TruncateString caps s at max runes. Provider customization titles are
// limited to 16 characters.
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

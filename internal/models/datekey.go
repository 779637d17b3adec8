package models

import (
	"time"
)

// DateKeyLayout is the YYYY-MM-DD form used as the key of both collections.
const DateKeyLayout = "2006-01-02"

// DateKey formats t in its own location as a date-key.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// IsDateKey reports whether s is a real calendar date in YYYY-MM-DD form.
func IsDateKey(s string) bool {
	if len(s) != len(DateKeyLayout) {
		return false
	}
	_, err := time.Parse(DateKeyLayout, s)
	return err == nil
}

package util

import (
	"errors"
	"time"
)

var ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

// ParseDate parses a date-only string in YYYY-MM-DD form
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

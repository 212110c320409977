package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in ISO YYYY-MM-DD form. Plain string ordering matches
// calendar ordering for this layout, so comparisons never parse.
type Date string

func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// Today returns the current day in local time.
func Today() Date {
	return Date(time.Now().Format(dateLayout))
}

func (d Date) Before(other Date) bool { return string(d) < string(other) }

func (d Date) String() string { return string(d) }

// AddDays is used for default stage deadlines at project creation.
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	return Date(t.AddDate(0, 0, n).Format(dateLayout))
}

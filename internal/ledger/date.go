package ledger

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used on every interface.
const DateLayout = "2006-01-02"

// NormalizeDate validates a YYYY-MM-DD day and returns it in canonical form.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: date is required", ErrValidation)
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrValidation, raw)
	}
	return parsed.Format(DateLayout), nil
}

// Today returns now's calendar day in now's location.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ShiftDate moves a day forward or backward by days.
func ShiftDate(date string, days int) (string, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	return parsed.AddDate(0, 0, days).Format(DateLayout), nil
}

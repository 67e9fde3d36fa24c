package core

import (
	"fmt"
	"strings"
	"time"
)

// Calendar dates cross the storage boundary as bare YYYY-MM-DD strings
// and must survive the round trip unchanged in every timezone. The
// helpers here therefore never route a calendar date through UTC: going
// string -> Date -> string via a UTC midnight shifts the day for any
// zone behind UTC.

const localDateLayout = "2006-01-02"

// ParseLocalDate parses a YYYY-MM-DD string into a time.Time anchored
// at local midnight. The local day-of-month always equals the day in
// the input string.
func ParseLocalDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(localDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local date %q: %w", s, err)
	}
	return t, nil
}

// ToLocalDateString is the inverse of ParseLocalDate, using the local
// year, month and day of t.
func ToLocalDateString(t time.Time) string {
	return t.Format(localDateLayout)
}

// FormatLocalDate re-renders a YYYY-MM-DD string as DD/MM/YYYY by
// direct substring split, with no Date conversion in between. Empty
// input yields ""; anything not shaped like an ISO date is returned
// unchanged.
func FormatLocalDate(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return s
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// DateRange bounds a query by calendar date, inclusive on both ends.
// Empty From means "from the beginning", empty To means "onward".
// Bounds are YYYY-MM-DD strings, which order lexicographically.
type DateRange struct {
	From string
	To   string
}

// IsZero reports whether the range is unbounded on both ends.
func (r DateRange) IsZero() bool {
	return r.From == "" && r.To == ""
}

// Contains reports whether the date (YYYY-MM-DD) falls inside the range.
func (r DateRange) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

// Validate checks that the supplied bounds are well-formed dates and
// not inverted.
func (r DateRange) Validate() error {
	if r.From != "" {
		if _, err := ParseLocalDate(r.From); err != nil {
			return err
		}
	}
	if r.To != "" {
		if _, err := ParseLocalDate(r.To); err != nil {
			return err
		}
	}
	if r.From != "" && r.To != "" && r.From > r.To {
		return fmt.Errorf("inverted date range: %s > %s", r.From, r.To)
	}
	return nil
}

// MonthRange returns the range covering the given calendar month.
func MonthRange(year, month int) DateRange {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	return DateRange{From: ToLocalDateString(first), To: ToLocalDateString(last)}
}

// LastNDaysRange returns the range spanning the n days ending today.
func LastNDaysRange(n int, now time.Time) DateRange {
	return DateRange{
		From: ToLocalDateString(now.AddDate(0, 0, -(n - 1))),
		To:   ToLocalDateString(now),
	}
}

// PreviousMonthRange derives the comparison period for a queried
// range: the full calendar month immediately before the month of
// r.From, first day to last day. The To bound of the input is
// irrelevant. Returns false when the range has no lower bound, since
// no meaningful comparison exists.
func PreviousMonthRange(r DateRange) (DateRange, bool) {
	if r.From == "" {
		return DateRange{}, false
	}
	from, err := ParseLocalDate(r.From)
	if err != nil {
		return DateRange{}, false
	}
	firstOfMonth := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.Local)
	prevFirst := firstOfMonth.AddDate(0, -1, 0)
	prevLast := firstOfMonth.AddDate(0, 0, -1)
	return DateRange{
		From: ToLocalDateString(prevFirst),
		To:   ToLocalDateString(prevLast),
	}, true
}

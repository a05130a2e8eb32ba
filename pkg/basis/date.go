package basis

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for export days.
const dateLayout = "2006-01-02"

// Date is a calendar day with no time component. The zero value is not
// a valid date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// ParseDate parses a strict YYYY-MM-DD string into a Date. The string
// must name a real calendar day; leap years are honored.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &Error{
			Kind:    ErrValidation,
			Message: fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", s),
			wrapped: err,
		}
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{year: year, month: month, day: day}
}

// Yesterday returns the day before today in local time, the default
// export day.
func Yesterday() Date {
	return DateOf(time.Now().AddDate(0, 0, -1))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Time returns the instant the day starts in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, 1))
}

// After reports whether d falls after other.
func (d Date) After(other Date) bool {
	return d.Time(time.UTC).After(other.Time(time.UTC))
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

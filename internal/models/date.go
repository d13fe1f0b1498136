package models

import (
	"fmt"
	"time"
)

// EventDate is a calendar date without a time-of-day component. The zero
// value is not a valid date.
type EventDate struct {
	Year  int
	Month int
	Day   int
}

func NewEventDate(year, month, day int) EventDate {
	return EventDate{Year: year, Month: month, Day: day}
}

func EventDateFromTime(t time.Time) EventDate {
	return EventDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseEventDate parses the persisted YYYY-MM-DD form. Zero-padding is not
// required, matching historical data files.
func ParseEventDate(s string) (EventDate, error) {
	var d EventDate
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
		return EventDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return EventDate{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}

func (d EventDate) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d EventDate) ToTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.Local)
}

// Compare returns -1, 0 or 1 like a three-way comparison on (year, month, day).
func (d EventDate) Compare(other EventDate) int {
	if d.Year != other.Year {
		return sign(d.Year - other.Year)
	}
	if d.Month != other.Month {
		return sign(d.Month - other.Month)
	}
	return sign(d.Day - other.Day)
}

func (d EventDate) Before(other EventDate) bool { return d.Compare(other) < 0 }
func (d EventDate) After(other EventDate) bool  { return d.Compare(other) > 0 }
func (d EventDate) Equal(other EventDate) bool  { return d.Compare(other) == 0 }

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// DayWindow is the closed interval [d, d].
func DayWindow(d EventDate) (EventDate, EventDate) {
	return d, d
}

// WeekWindow is week-to-date: from the Monday of d's week through d itself,
// not through the week's Sunday.
func WeekWindow(d EventDate) (EventDate, EventDate) {
	t := d.ToTime()
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	start := EventDateFromTime(t.AddDate(0, 0, -offset))
	return start, d
}

// MonthWindow is month-to-date: day 1 of d's month through d itself.
func MonthWindow(d EventDate) (EventDate, EventDate) {
	return EventDate{Year: d.Year, Month: d.Month, Day: 1}, d
}

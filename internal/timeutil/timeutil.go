package timeutil

import (
	"fmt"
	"time"
)

// Date is a calendar date in the report timezone, used as a bucket key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Converter translates between RFC3339 instants stored by the upstream API
// and calendar dates/timestamps in a fixed local timezone.
type Converter struct {
	loc *time.Location
}

func NewConverter(zone string) (*Converter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}
	return &Converter{loc: loc}, nil
}

func NewConverterIn(loc *time.Location) *Converter {
	return &Converter{loc: loc}
}

func (c *Converter) Location() *time.Location {
	return c.loc
}

// ToUTCString serialises an instant as RFC3339 UTC with a trailing Z.
func ToUTCString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// LocalDateTime parses an RFC3339 timestamp and reprojects it into the local
// timezone. A nil or empty input is absent, not an error.
func (c *Converter) LocalDateTime(ts *string) (*time.Time, error) {
	if ts == nil || *ts == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *ts)
	if err != nil {
		return nil, fmt.Errorf("invalid RFC3339 timestamp %q: %w", *ts, err)
	}
	local := t.In(c.loc)
	return &local, nil
}

// LocalDate is LocalDateTime reduced to the calendar date portion. The second
// return reports whether a date was present at all.
func (c *Converter) LocalDate(ts *string) (Date, bool, error) {
	t, err := c.LocalDateTime(ts)
	if err != nil {
		return Date{}, false, err
	}
	if t == nil {
		return Date{}, false, nil
	}
	return DateOf(*t), true, nil
}

// Today returns the local calendar date of the given instant. Callers pass a
// fresh now on every pipeline run; today rolls over at local midnight
// independently of any cache TTL.
func (c *Converter) Today(now time.Time) Date {
	return DateOf(now.In(c.loc))
}

// Window returns the ordered target dates today .. today+days-1.
func (c *Converter) Window(now time.Time, days int) []Date {
	today := c.Today(now)
	dates := make([]Date, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, today.AddDays(i))
	}
	return dates
}

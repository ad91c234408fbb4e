package dbtime

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

const (
	LayoutISODate = "2006-01-02"
	LayoutBRDate  = "02/01/2006"
)

// Clock anchors "today" to the business location instead of the host zone.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

// NewClock loads tz, falling back to America/Sao_Paulo and finally UTC.
func NewClock(tz string) Clock {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		if loc, err = time.LoadLocation(DefaultTimezone); err != nil {
			loc = time.UTC
		}
	}
	return Clock{Loc: loc, Now: time.Now}
}

// FixedClock always reports the given instant.
func FixedClock(t time.Time) Clock {
	loc := t.Location()
	return Clock{Loc: loc, Now: func() time.Time { return t }}
}

func (c Clock) location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// Current is the wall-clock instant in the business location.
func (c Clock) Current() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}

// Today is the calendar date in the business location, as UTC midnight.
func (c Clock) Today() time.Time {
	return DateOf(c.Current())
}

// DateOf keeps the calendar components of t in its own zone and drops the rest.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b (negative when b is earlier).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

var ErrInvalidDate = errors.New("invalid date")

// excelEpoch is day zero of the 1900 date system (with the Lotus leap-year bug folded in).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate accepts ISO dates (optionally with a time part), dd/mm/yyyy and Excel serials.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if len(s) >= 10 {
		if t, err := time.Parse(LayoutISODate, s[:10]); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(LayoutBRDate, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2/1/2006", s); err == nil {
		return t, nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		return excelEpoch.AddDate(0, 0, int(serial)), nil
	}
	return time.Time{}, ErrInvalidDate
}

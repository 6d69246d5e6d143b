// Package jdn converts between Gregorian calendar dates and Julian Day
// Numbers, the day axis shift schedules are defined on.
package jdn

import (
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
)

// GregorianReform is the first JDN of the Gregorian calendar (1582-10-15).
// ToTime returns Julian calendar dates before it.
const GregorianReform int64 = 2299161

// MinJDN and MaxJDN bound the days Format can render, from 4713 BC
// January 1 (Julian) through 9999-12-31.
const (
	MinJDN int64 = 0
	MaxJDN int64 = 5373484
)

// Valid reports whether n lies in [MinJDN, MaxJDN].
func Valid(n int64) bool { return n >= MinJDN && n <= MaxJDN }

// FromCivil returns the JDN of a proleptic Gregorian date.
func FromCivil(year int, month time.Month, day int) int64 {
	jd := julian.CalendarGregorianToJD(year, int(month), float64(day))
	return int64(math.Floor(jd + 0.5))
}

// FromTime returns the JDN of the calendar day t falls on in its own location.
func FromTime(t time.Time) int64 {
	y, m, d := t.Date()
	return FromCivil(y, m, d)
}

// ToTime returns midnight of day n in loc.
func ToTime(n int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := julian.JDToCalendar(float64(n))
	return time.Date(y, time.Month(m), int(d), 0, 0, 0, 0, loc)
}

// Parse reads a YYYY-MM-DD date and returns its JDN.
func Parse(s string) (int64, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, err
	}
	return FromTime(t), nil
}

// Format renders day n as YYYY-MM-DD, or "" when n is not Valid.
func Format(n int64) string {
	if !Valid(n) {
		return ""
	}
	return ToTime(n, time.UTC).Format(time.DateOnly)
}

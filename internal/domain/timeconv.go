package domain

import (
	"math"
	"time"
)

// JulianDayUnixEpoch is the Julian Day of 1970-01-01T00:00:00Z.
const JulianDayUnixEpoch = 2440587.5

const secondsPerDay = 86400.0

// JulianDayFromTime converts an instant to a Julian Day (UT).
func JulianDayFromTime(t time.Time) float64 {
	return JulianDayUnixEpoch + float64(t.UnixNano())/1e9/secondsPerDay
}

// TimeFromJulianDay converts a Julian Day (UT) back to a UTC instant,
// rounded to the millisecond.
func TimeFromJulianDay(jd float64) time.Time {
	ms := math.Round((jd - JulianDayUnixEpoch) * secondsPerDay * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// FormatJulianDay renders jd as a calendar date for presentation.
func FormatJulianDay(jd float64) string {
	return TimeFromJulianDay(jd).Format("2006-01-02")
}

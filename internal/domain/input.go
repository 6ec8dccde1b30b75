package domain

import (
	"fmt"
	"time"
)

// BirthInput holds the civil birth moment and geographic location.
type BirthInput struct {
	Label            string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label"`
	Year             int     `json:"year" yaml:"year" toml:"year"`
	Month            int     `json:"month" yaml:"month" toml:"month"`
	Day              int     `json:"day" yaml:"day" toml:"day"`
	Hour             int     `json:"hour" yaml:"hour" toml:"hour"`
	Minute           int     `json:"minute" yaml:"minute" toml:"minute"`
	Second           int     `json:"second" yaml:"second" toml:"second"`
	UTCOffsetMinutes int     `json:"utc_offset_minutes" yaml:"utc_offset_minutes" toml:"utc_offset_minutes"` // east of UTC is positive
	Latitude         float64 `json:"latitude" yaml:"latitude" toml:"latitude"`                               // north positive
	Longitude        float64 `json:"longitude" yaml:"longitude" toml:"longitude"`                            // east positive
}

// Validate checks calendar and geographic ranges.
func (b BirthInput) Validate() error {
	switch {
	case b.Year < 1000 || b.Year > 3000:
		return fmt.Errorf("%w: year %d outside 1000..3000", ErrInvalidInput, b.Year)
	case b.Month < 1 || b.Month > 12:
		return fmt.Errorf("%w: month %d", ErrInvalidInput, b.Month)
	case b.Day < 1 || b.Day > daysIn(b.Year, b.Month):
		return fmt.Errorf("%w: day %d", ErrInvalidInput, b.Day)
	case b.Hour < 0 || b.Hour > 23:
		return fmt.Errorf("%w: hour %d", ErrInvalidInput, b.Hour)
	case b.Minute < 0 || b.Minute > 59:
		return fmt.Errorf("%w: minute %d", ErrInvalidInput, b.Minute)
	case b.Second < 0 || b.Second > 59:
		return fmt.Errorf("%w: second %d", ErrInvalidInput, b.Second)
	case b.UTCOffsetMinutes < -14*60 || b.UTCOffsetMinutes > 14*60:
		return fmt.Errorf("%w: utc offset %d minutes", ErrInvalidInput, b.UTCOffsetMinutes)
	case b.Latitude < -90 || b.Latitude > 90:
		return fmt.Errorf("%w: latitude %.4f", ErrInvalidInput, b.Latitude)
	case b.Longitude < -180 || b.Longitude > 180:
		return fmt.Errorf("%w: longitude %.4f", ErrInvalidInput, b.Longitude)
	}
	return nil
}

// Instant resolves the civil time to UTC.
func (b BirthInput) Instant() time.Time {
	loc := time.FixedZone("birth", b.UTCOffsetMinutes*60)
	return time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, b.Second, 0, loc).UTC()
}

// JulianDay returns the birth instant as a Julian Day (UT).
func (b BirthInput) JulianDay() float64 {
	return JulianDayFromTime(b.Instant())
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

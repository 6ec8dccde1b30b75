package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() BirthInput {
	return BirthInput{Year: 1990, Month: 6, Day: 15, Hour: 12, UTCOffsetMinutes: 330, Latitude: 28.6, Longitude: 77.2}
}

func TestBirthInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *BirthInput)
		wantErr bool
	}{
		{"valid", func(b *BirthInput) {}, false},
		{"year too small", func(b *BirthInput) { b.Year = 999 }, true},
		{"bad month", func(b *BirthInput) { b.Month = 13 }, true},
		{"feb 30", func(b *BirthInput) { b.Month = 2; b.Day = 30 }, true},
		{"leap day", func(b *BirthInput) { b.Year = 2000; b.Month = 2; b.Day = 29 }, false},
		{"latitude", func(b *BirthInput) { b.Latitude = 91 }, true},
		{"longitude", func(b *BirthInput) { b.Longitude = -181 }, true},
		{"offset", func(b *BirthInput) { b.UTCOffsetMinutes = 15 * 60 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validInput()
			tt.mutate(&b)
			err := b.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBirthInput_JulianDay(t *testing.T) {
	b := BirthInput{Year: 2000, Month: 1, Day: 1, Hour: 12}
	assert.InDelta(t, 2451545.0, b.JulianDay(), 1e-6)

	// 17:30 at +05:30 is noon UT.
	b = BirthInput{Year: 2000, Month: 1, Day: 1, Hour: 17, Minute: 30, UTCOffsetMinutes: 330}
	assert.InDelta(t, 2451545.0, b.JulianDay(), 1e-6)
}

func TestTimeFromJulianDay(t *testing.T) {
	want := time.Date(1990, 6, 15, 6, 30, 0, 0, time.UTC)
	got := TimeFromJulianDay(JulianDayFromTime(want))
	assert.True(t, want.Equal(got), "got %s", got)
	assert.Equal(t, "2000-01-01", FormatJulianDay(2451545.0))
}

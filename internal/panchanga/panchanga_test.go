package panchanga

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jyotish-lab/internal/domain"
)

func TestTithiOf(t *testing.T) {
	tests := []struct {
		name       string
		sun, moon  float64
		wantIdx    int
		wantName   string
		wantPaksha string
	}{
		{"new moon start", 100, 100, 1, "Pratipada", "Shukla"},
		{"full moon", 0, 174, 15, "Purnima", "Shukla"},
		{"krishna pratipada", 0, 181, 16, "Pratipada", "Krishna"},
		{"amavasya", 10, 5, 30, "Amavasya", "Krishna"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TithiOf(tt.sun, tt.moon)
			assert.Equal(t, tt.wantIdx, got.Index)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantPaksha, got.Paksha)
			assert.GreaterOrEqual(t, got.Completion, 0.0)
			assert.Less(t, got.Completion, 1.0)
		})
	}
}

func TestNakshatraOf(t *testing.T) {
	n := NakshatraOf(181)
	assert.Equal(t, 14, n.Index)
	assert.Equal(t, "Chitra", n.Name)
	assert.Equal(t, 3, n.Pada)
	assert.InDelta(t, 0.575, n.Completion, 1e-9)
}

func TestYogaOf(t *testing.T) {
	assert.Equal(t, Yoga{Index: 1, Name: "Vishkambha"}, YogaOf(0, 0))
	assert.Equal(t, 27, YogaOf(200, 159.9).Index)
}

func TestKaranaOf(t *testing.T) {
	assert.Equal(t, "Kimstughna", KaranaOf(0, 3).Name)
	assert.Equal(t, "Bava", KaranaOf(0, 7).Name)
	assert.Equal(t, "Vishti", KaranaOf(0, 43).Name)
	assert.Equal(t, "Bava", KaranaOf(0, 49).Name)
	assert.Equal(t, "Shakuni", KaranaOf(0, 343).Name)
	assert.Equal(t, "Naga", KaranaOf(0, 359).Name)
	assert.Equal(t, 60, KaranaOf(0, 359).Index)
}

func TestVaraOf(t *testing.T) {
	// Saturday noon.
	v := VaraOf(2451545.0, 2451544.75, 0)
	assert.Equal(t, 6, v.Index)
	assert.Equal(t, domain.Saturn, v.Lord)

	// Saturday 03:00 UT, before a 06:00 sunrise, is still Friday.
	v = VaraOf(2451544.625, 2451544.75, 0)
	assert.Equal(t, 5, v.Index)
	assert.Equal(t, domain.Venus, v.Lord)

	// Unknown sunrise falls back to the civil weekday.
	v = VaraOf(2451544.625, 0, 0)
	assert.Equal(t, 6, v.Index)
}

func TestVaraOf_EastOfGreenwich(t *testing.T) {
	// Tokyo, Saturday 2000-01-01 07:00 JST, after a 06:51 JST sunrise.
	jd := 2451544.41667
	sunrise := 2451544.5 - (2+9.0/60)/24

	v := VaraOf(jd, sunrise, 9*60)
	assert.Equal(t, 6, v.Index)
	assert.Equal(t, "Shanivara", v.Name)
	assert.Equal(t, domain.Saturn, v.Lord)

	// 06:30 JST, before sunrise, is still Friday.
	v = VaraOf(sunrise-0.015, sunrise, 9*60)
	assert.Equal(t, 5, v.Index)

	// Unknown sunrise uses the local civil date.
	assert.Equal(t, 6, VaraOf(jd, 0, 9*60).Index)
}

func TestCompute(t *testing.T) {
	p := Compute(10, 181, 2451545.0, 0, 0)
	assert.Equal(t, 15, p.Tithi.Index)
	assert.Equal(t, 14, p.Nakshatra.Index)
	assert.NotEmpty(t, p.Yoga.Name)
	assert.NotEmpty(t, p.Karana.Name)
	assert.Equal(t, "Shanivara", p.Vara.Name)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSign(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{1, 1}, {12, 12}, {13, 1}, {0, 12}, {-1, 11}, {25, 1}, {-12, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSign(tt.in), "NormalizeSign(%d)", tt.in)
	}
}

func TestSignAndDegree(t *testing.T) {
	assert.Equal(t, 1, SignOf(0))
	assert.Equal(t, 1, SignOf(29.999))
	assert.Equal(t, 2, SignOf(30))
	assert.Equal(t, 12, SignOf(359.99))
	assert.Equal(t, 1, SignOf(360))
	assert.Equal(t, 12, SignOf(-0.5))
	assert.InDelta(t, 15.0, DegreeInSign(45), 1e-9)
}

func TestSignOf_Periodic(t *testing.T) {
	for lon := 0.0; lon < 360; lon += 0.125 {
		want := SignOf(lon)
		for _, k := range []int{-4, -1, 1, 3} {
			if got := SignOf(lon + 360*float64(k)); got != want {
				t.Fatalf("SignOf(%.3f) = %d, want %d", lon+360*float64(k), got, want)
			}
		}
	}
}

func TestNakshatraAndPada(t *testing.T) {
	assert.Equal(t, 1, NakshatraOf(0))
	assert.Equal(t, 14, NakshatraOf(181))
	assert.Equal(t, 27, NakshatraOf(359.999))
	assert.Equal(t, 2, NakshatraOf(NakshatraSpan))
	assert.Equal(t, 1, PadaOf(0))
	assert.Equal(t, 4, PadaOf(NakshatraSpan-0.0001))
	assert.Equal(t, "Chitra", NakshatraName(14))
}

func TestHouseFrom(t *testing.T) {
	assert.Equal(t, 1, HouseFrom(1, 1))
	assert.Equal(t, 7, HouseFrom(1, 7))
	assert.Equal(t, 12, HouseFrom(5, 4))
	assert.Equal(t, 2, HouseFrom(12, 1))
}

func TestArcDistance(t *testing.T) {
	assert.InDelta(t, 20.0, ArcDistance(350, 10), 1e-9)
	assert.InDelta(t, 180.0, ArcDistance(0, 180), 1e-9)
	assert.InDelta(t, 0.0, ArcDistance(720, 0), 1e-9)
}

func TestModality(t *testing.T) {
	assert.Equal(t, Movable, ModalityOf(1))
	assert.Equal(t, Fixed, ModalityOf(2))
	assert.Equal(t, Dual, ModalityOf(3))
	assert.Equal(t, Fixed, ModalityOf(11))
	assert.Equal(t, Dual, ModalityOf(12))
}

func TestNewBodyPosition(t *testing.T) {
	p := NewBodyPosition(BodyIDMoon, Moon, 181, 13.2, -2, 15)
	assert.Equal(t, 7, p.Sign)
	assert.InDelta(t, 1.0, p.Degree, 1e-9)
	assert.Equal(t, 7, p.House)
	assert.Equal(t, 14, p.Nakshatra)
	assert.False(t, p.IsRetrograde())
}

package shadbala

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jyotish-lab/internal/domain"
)

func body(name string, lon, speed, decl, asc float64) *domain.CelestialBodyPosition {
	return domain.NewBodyPosition(0, name, lon, speed, decl, asc)
}

func sampleBodies(asc float64) map[string]*domain.CelestialBodyPosition {
	return map[string]*domain.CelestialBodyPosition{
		domain.Sun:     body(domain.Sun, 10, 0.98, 4, asc),
		domain.Moon:    body(domain.Moon, 181, 13.1, -2, asc),
		domain.Mars:    body(domain.Mars, 298, -0.2, -20, asc),
		domain.Mercury: body(domain.Mercury, 20, 1.6, 10, asc),
		domain.Jupiter: body(domain.Jupiter, 95, 0.01, 22, asc),
		domain.Venus:   body(domain.Venus, 340, 1.2, -5, asc),
		domain.Saturn:  body(domain.Saturn, 200, 0.03, -8, asc),
	}
}

func newEngine() *Engine {
	return New(DefaultTables(), domain.Calibration{AyanaScale: 1}, nil)
}

func TestExaltation(t *testing.T) {
	e := newEngine()
	assert.InDelta(t, 60.0, e.Exaltation(domain.Sun, 10), 1e-9)
	assert.InDelta(t, 0.0, e.Exaltation(domain.Sun, 190), 1e-9)
	assert.InDelta(t, 30.0, e.Exaltation(domain.Sun, 100), 1e-9)
	assert.InDelta(t, 60.0, e.Exaltation(domain.Venus, 357), 1e-9)
	assert.Zero(t, e.Exaltation(domain.Rahu, 0))
}

func TestDrishti_Curve(t *testing.T) {
	tests := []struct {
		angle float64
		want  float64
	}{
		{0, 0}, {29, 0}, {30, 0}, {45, 7.5}, {60, 15}, {75, 30}, {90, 45},
		{105, 37.5}, {120, 30}, {135, 15}, {150, 0}, {165, 30}, {180, 60},
		{240, 30}, {300, 0}, {330, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Drishti(domain.Sun, tt.angle), 1e-9, "angle %.0f", tt.angle)
	}
}

func TestDrishti_SpecialAspects(t *testing.T) {
	assert.Equal(t, 60.0, Drishti(domain.Mars, 95))
	assert.Equal(t, 60.0, Drishti(domain.Mars, 215))
	assert.Equal(t, 60.0, Drishti(domain.Jupiter, 125))
	assert.Equal(t, 60.0, Drishti(domain.Jupiter, 245))
	assert.Equal(t, 60.0, Drishti(domain.Saturn, 65))
	assert.Equal(t, 60.0, Drishti(domain.Saturn, 275))
	assert.InDelta(t, 42.5, Drishti(domain.Sun, 95), 1e-9)
}

func TestCalculate_ConjunctionContributesNothing(t *testing.T) {
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun:     body(domain.Sun, 100, 1, 0, 0),
		domain.Jupiter: body(domain.Jupiter, 100, 0.1, 0, 0),
	}
	reports := newEngine().Calculate(Input{Bodies: bodies})
	require.Len(t, reports, 2)
	assert.Zero(t, reports[domain.Sun].Components.Aspectual)
	assert.Zero(t, reports[domain.Jupiter].Components.Aspectual)
}

func TestCalculate_OppositionAspect(t *testing.T) {
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun:     body(domain.Sun, 100, 1, 0, 0),
		domain.Jupiter: body(domain.Jupiter, 280, 0.1, 0, 0),
	}
	reports := newEngine().Calculate(Input{Bodies: bodies})
	// Jupiter (benefic) fully aspects the Sun; the Sun (malefic) fully aspects Jupiter.
	assert.InDelta(t, 15.0, reports[domain.Sun].Components.Aspectual, 1e-9)
	assert.InDelta(t, -15.0, reports[domain.Jupiter].Components.Aspectual, 1e-9)
}

func TestCalculate_ExaltedPlanetMaxExaltationScore(t *testing.T) {
	reports := newEngine().Calculate(Input{Bodies: sampleBodies(15), Ascendant: 15})
	assert.InDelta(t, 60.0, reports[domain.Sun].Positional.Exaltation, 1e-9)
	assert.InDelta(t, 60.0, reports[domain.Mars].Positional.Exaltation, 1e-9)
}

func TestCalculate_Boundedness(t *testing.T) {
	e := newEngine()
	tables := DefaultTables()
	for asc := 0.0; asc < 360; asc += 37 {
		reports := e.Calculate(Input{Bodies: sampleBodies(asc), Ascendant: asc})
		require.Len(t, reports, 7)
		for name, r := range reports {
			c := r.Components
			for _, v := range []float64{c.Positional, c.Directional, c.Temporal, c.Motional, c.Natural, c.Aspectual} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s component not finite", name)
			}
			assert.InDelta(t, r.Total/60, r.Rupas, 1e-9)
			assert.Equal(t, r.Rupas >= tables.Required[name], r.IsStrong, name)
		}
	}
}

func TestCalculate_MissingPlanetOmitted(t *testing.T) {
	bodies := sampleBodies(0)
	delete(bodies, domain.Saturn)
	bodies["Dhooma"] = body("Dhooma", 143, 0, 0, 0)

	reports := newEngine().Calculate(Input{Bodies: bodies})
	assert.Len(t, reports, 6)
	_, ok := reports[domain.Saturn]
	assert.False(t, ok)
	_, ok = reports["Dhooma"]
	assert.False(t, ok)
}

func TestCalculate_Directional(t *testing.T) {
	asc := 15.0
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun:    body(domain.Sun, asc+270, 1, 0, asc),
		domain.Saturn: body(domain.Saturn, asc, 0.03, 0, asc),
	}
	reports := newEngine().Calculate(Input{Bodies: bodies, Ascendant: asc})
	assert.InDelta(t, 60.0, reports[domain.Sun].Components.Directional, 1e-9)
	assert.InDelta(t, 0.0, reports[domain.Saturn].Components.Directional, 1e-9)
}

func TestCalculate_Motional(t *testing.T) {
	reports := newEngine().Calculate(Input{Bodies: sampleBodies(0)})
	assert.Equal(t, 30.0, reports[domain.Sun].Components.Motional)
	assert.Equal(t, 30.0, reports[domain.Moon].Components.Motional)
	assert.Equal(t, 60.0, reports[domain.Mars].Components.Motional)    // retrograde
	assert.Equal(t, 45.0, reports[domain.Mercury].Components.Motional) // fast
	assert.Equal(t, 15.0, reports[domain.Jupiter].Components.Motional) // near stationary
	assert.Equal(t, 30.0, reports[domain.Saturn].Components.Motional)
}

func TestCalculate_DayNight(t *testing.T) {
	bodies := sampleBodies(0)
	e := newEngine()

	day := e.Calculate(Input{Bodies: bodies, JD: 100.5, Sunrise: 100.25, Sunset: 100.75})
	assert.Equal(t, 60.0, day[domain.Sun].Temporal.DayNight)
	assert.Equal(t, 0.0, day[domain.Moon].Temporal.DayNight)
	assert.Equal(t, 60.0, day[domain.Mercury].Temporal.DayNight)

	night := e.Calculate(Input{Bodies: bodies, JD: 100.9, Sunrise: 100.25, Sunset: 100.75})
	assert.Equal(t, 0.0, night[domain.Sun].Temporal.DayNight)
	assert.Equal(t, 60.0, night[domain.Saturn].Temporal.DayNight)
	assert.Equal(t, 60.0, night[domain.Mercury].Temporal.DayNight)
}

func TestCalculate_DegenerateRiseSetFallsBackToSunHouse(t *testing.T) {
	// Ascendant 15°, Sun at 190° sits in the 7th house: above the horizon.
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun: body(domain.Sun, 190, 1, 0, 15),
	}
	reports := newEngine().Calculate(Input{Bodies: bodies, Ascendant: 15})
	assert.Equal(t, 60.0, reports[domain.Sun].Temporal.DayNight)
}

func TestCalculate_Paksha(t *testing.T) {
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun:  body(domain.Sun, 0, 1, 0, 0),
		domain.Moon: body(domain.Moon, 180, 13, 0, 0),
	}
	reports := newEngine().Calculate(Input{Bodies: bodies})
	assert.InDelta(t, 60.0, reports[domain.Moon].Temporal.Paksha, 1e-9) // full moon favors benefics
	assert.InDelta(t, 0.0, reports[domain.Sun].Temporal.Paksha, 1e-9)
}

func TestCalculate_AyanaCalibration(t *testing.T) {
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun: body(domain.Sun, 90, 1, 24, 0),
	}
	on := New(DefaultTables(), domain.Calibration{AyanaScale: 1, KaalaBaseline: 35}, nil).Calculate(Input{Bodies: bodies})
	assert.InDelta(t, 60.0, on[domain.Sun].Temporal.Ayana, 1e-9)
	assert.InDelta(t, 35.0, on[domain.Sun].Temporal.Baseline, 1e-9)

	off := New(DefaultTables(), domain.Calibration{}, nil).Calculate(Input{Bodies: bodies})
	assert.Zero(t, off[domain.Sun].Temporal.Ayana)
}

func TestCalculate_OjaYugma(t *testing.T) {
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun:    body(domain.Sun, 0.5, 1, 0, 0),    // Aries, D9 Aries
		domain.Venus:  body(domain.Venus, 0.5, 1, 0, 0),  // female in odd signs
		domain.Saturn: body(domain.Saturn, 0.5, 1, 0, 0), // odd signs like the Sun
		domain.Moon:   body(domain.Moon, 30.5, 2, 0, 0),  // Taurus, D9 Capricorn
	}
	reports := newEngine().Calculate(Input{Bodies: bodies})
	assert.Equal(t, 30.0, reports[domain.Sun].Positional.OjaYugma)
	assert.Equal(t, 0.0, reports[domain.Venus].Positional.OjaYugma)
	assert.Equal(t, 30.0, reports[domain.Saturn].Positional.OjaYugma)
	assert.Equal(t, 30.0, reports[domain.Moon].Positional.OjaYugma)

	// Saturn in an even sign and even navamsa earns nothing.
	reports = newEngine().Calculate(Input{Bodies: map[string]*domain.CelestialBodyPosition{
		domain.Saturn: body(domain.Saturn, 30.5, 2, 0, 0),
	}})
	assert.Equal(t, 0.0, reports[domain.Saturn].Positional.OjaYugma)
}

package shadbala

import (
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/maitri"
)

// Tables are the fixed constants of the strength model.
type Tables struct {
	// ExaltationPoints are sidereal longitudes of deep exaltation.
	ExaltationPoints map[string]float64
	// NaturalStrength in virupas.
	NaturalStrength map[string]float64
	// Required is the minimum total strength in rupas.
	Required map[string]float64
	// MeanMotion is average daily motion in degrees.
	MeanMotion map[string]float64
}

// DefaultTables returns the classical constants.
func DefaultTables() Tables {
	return Tables{
		ExaltationPoints: map[string]float64{
			domain.Sun:     10,
			domain.Moon:    33,
			domain.Mars:    298,
			domain.Mercury: 165,
			domain.Jupiter: 95,
			domain.Venus:   357,
			domain.Saturn:  200,
		},
		NaturalStrength: map[string]float64{
			domain.Sun:     60.00,
			domain.Moon:    51.43,
			domain.Venus:   42.86,
			domain.Jupiter: 34.29,
			domain.Mercury: 25.71,
			domain.Mars:    17.14,
			domain.Saturn:  8.57,
		},
		Required: map[string]float64{
			domain.Sun:     5.5,
			domain.Moon:    6.0,
			domain.Mars:    5.0,
			domain.Mercury: 7.0,
			domain.Jupiter: 7.0,
			domain.Venus:   5.5,
			domain.Saturn:  5.0,
		},
		MeanMotion: map[string]float64{
			domain.Mars:    0.5240,
			domain.Mercury: 0.9856,
			domain.Jupiter: 0.0831,
			domain.Venus:   0.9856,
			domain.Saturn:  0.0335,
		},
	}
}

var saptavargaScore = map[maitri.Compound]float64{
	maitri.Own:         30,
	maitri.GreatFriend: 22.5,
	maitri.CompFriend:  15,
	maitri.CompNeutral: 7.5,
	maitri.CompEnemy:   3.75,
	maitri.GreatEnemy:  1.875,
}

var (
	// oddSignPlanets gain oja-yugma bala in odd signs; Moon and Venus in even ones.
	oddSignPlanets = map[string]bool{domain.Sun: true, domain.Mars: true, domain.Jupiter: true, domain.Mercury: true, domain.Saturn: true}
	benefics       = map[string]bool{domain.Jupiter: true, domain.Venus: true, domain.Moon: true, domain.Mercury: true}
	dayPlanets     = map[string]bool{domain.Sun: true, domain.Jupiter: true, domain.Venus: true}
)

// directionOffset is the preferred house cusp measured from the ascendant.
var directionOffset = map[string]float64{
	domain.Sun:     270, // 10th
	domain.Mars:    270,
	domain.Moon:    90, // 4th
	domain.Venus:   90,
	domain.Saturn:  180, // 7th
	domain.Mercury: 0,
	domain.Jupiter: 0,
}

type window struct{ from, to float64 }

// specialAspects are the extra full-strength aspects, as angular windows
// from the viewer.
var specialAspects = map[string][]window{
	domain.Mars:    {{90, 100}, {210, 220}},
	domain.Jupiter: {{120, 130}, {240, 250}},
	domain.Saturn:  {{60, 70}, {270, 280}},
}

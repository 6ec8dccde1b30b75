package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfiguration_NormalizeFallsBack(t *testing.T) {
	cfg := Configuration{
		Ayanamsa:     "NOT_A_MODE",
		HouseSystem:  "koch",
		DashaSystems: []DashaSystem{"bogus", "yogini", DashaYogini},
	}
	n := cfg.Normalize()

	assert.Equal(t, AyanamsaLahiri, n.Ayanamsa)
	assert.Equal(t, HouseWholeSign, n.HouseSystem)
	assert.Equal(t, []DashaSystem{DashaYogini}, n.DashaSystems)
	assert.Equal(t, DefaultTransitDays, n.TransitDays)
}

func TestConfiguration_NormalizeKeepsValid(t *testing.T) {
	cfg := DefaultConfiguration()
	cfg.Ayanamsa = "raman"
	cfg.HouseSystem = HousePlacidus
	n := cfg.Normalize()

	assert.Equal(t, AyanamsaRaman, n.Ayanamsa)
	assert.Equal(t, HousePlacidus, n.HouseSystem)
	assert.True(t, n.HasDasha(DashaVimshottari))
	assert.False(t, n.HasDasha(DashaChara))
}

func TestConfiguration_EmptyDashaListDefaults(t *testing.T) {
	n := Configuration{}.Normalize()
	assert.Equal(t, []DashaSystem{DashaVimshottari}, n.DashaSystems)
}

package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"jyotish-lab/internal/ashtakavarga"
	"jyotish-lab/internal/dasha"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/jaimini"
	"jyotish-lab/internal/maitri"
	"jyotish-lab/internal/panchanga"
	"jyotish-lab/internal/transit"
	"jyotish-lab/internal/varga"
	"jyotish-lab/internal/yoga"
)

// ErrKeyExists is returned when a stage tries to overwrite another stage's result.
var ErrKeyExists = errors.New("analysis key already set")

// Analysis keys written by the stages.
const (
	KeyShadowPoints = "shadow_points"
	KeyVargas       = "vargas"
	KeyRelations    = "relations"
	KeyShadbala     = "shadbala"
	KeyDashas       = "dashas"
	KeyDashaBalance = "dasha_balance"
	KeyPanchanga    = "panchanga"
	KeyAshtakavarga = "ashtakavarga"
	KeyYogas        = "yogas"
	KeyJaimini      = "jaimini"
	KeyDoshas       = "doshas"
	KeyTransits     = "transits"
)

// ChartContext is the mutable state of one chart run. It is owned by a
// single run and must not be shared between concurrent runs.
type ChartContext struct {
	Input  domain.BirthInput
	Config domain.Configuration
	JD     float64

	Ascendant float64
	Cusps     [12]float64
	RiseSet   ephemeris.RiseSet
	Bodies    map[string]*domain.CelestialBodyPosition

	astronomy bool
	analysis  map[string]any
}

// NewChartContext creates an empty context for input and cfg.
func NewChartContext(input domain.BirthInput, cfg domain.Configuration) *ChartContext {
	return &ChartContext{
		Input:    input,
		Config:   cfg,
		JD:       input.JulianDay(),
		Bodies:   make(map[string]*domain.CelestialBodyPosition),
		analysis: make(map[string]any),
	}
}

// HasAstronomy reports whether the astronomy stage completed.
func (c *ChartContext) HasAstronomy() bool {
	return c.astronomy
}

// AscendantSign returns the 1-based sign of the ascendant.
func (c *ChartContext) AscendantSign() int {
	return domain.SignOf(c.Ascendant)
}

// Set stores a stage result. Keys are append-only.
func (c *ChartContext) Set(key string, value any) error {
	if _, ok := c.analysis[key]; ok {
		return fmt.Errorf("%w: %s", ErrKeyExists, key)
	}
	c.analysis[key] = value
	return nil
}

// Get returns a stage result.
func (c *ChartContext) Get(key string) (any, bool) {
	v, ok := c.analysis[key]
	return v, ok
}

// Keys lists the analysis keys present, sorted.
func (c *ChartContext) Keys() []string {
	keys := make([]string, 0, len(c.analysis))
	for k := range c.analysis {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func get[T any](c *ChartContext, key string) (T, bool) {
	var zero T
	v, ok := c.analysis[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Vargas returns the divisional chart placements.
func (c *ChartContext) Vargas() (varga.Chart, bool) {
	return get[varga.Chart](c, KeyVargas)
}

// Relations returns the compound relationship matrix.
func (c *ChartContext) Relations() (map[string]map[string]maitri.Compound, bool) {
	return get[map[string]map[string]maitri.Compound](c, KeyRelations)
}

// Strength returns strength reports by planet.
func (c *ChartContext) Strength() (map[string]domain.StrengthReport, bool) {
	return get[map[string]domain.StrengthReport](c, KeyShadbala)
}

// Dashas returns period trees by system.
func (c *ChartContext) Dashas() (map[domain.DashaSystem][]*domain.DashaPeriod, bool) {
	return get[map[domain.DashaSystem][]*domain.DashaPeriod](c, KeyDashas)
}

// DashaBalances returns the birth balance of each nakshatra-based system.
func (c *ChartContext) DashaBalances() (map[domain.DashaSystem]dasha.BirthBalance, bool) {
	return get[map[domain.DashaSystem]dasha.BirthBalance](c, KeyDashaBalance)
}

// Panchanga returns the almanac of the birth moment.
func (c *ChartContext) Panchanga() (panchanga.Panchanga, bool) {
	return get[panchanga.Panchanga](c, KeyPanchanga)
}

// Yogas returns detected combinations.
func (c *ChartContext) Yogas() ([]yoga.Yoga, bool) {
	return get[[]yoga.Yoga](c, KeyYogas)
}

// Ashtakavarga returns the bindu scores of the signs.
func (c *ChartContext) Ashtakavarga() (ashtakavarga.Result, bool) {
	return get[ashtakavarga.Result](c, KeyAshtakavarga)
}

// Jaimini returns karakas, arudhas and karaka yogas.
func (c *ChartContext) Jaimini() (jaimini.Indicators, bool) {
	return get[jaimini.Indicators](c, KeyJaimini)
}

// Doshas returns the affliction checks.
func (c *ChartContext) Doshas() (yoga.Doshas, bool) {
	return get[yoga.Doshas](c, KeyDoshas)
}

// Transits returns the forecast window.
func (c *ChartContext) Transits() (*transit.Forecast, bool) {
	return get[*transit.Forecast](c, KeyTransits)
}

// ShadowPoints returns the names of synthetic bodies injected into Bodies.
func (c *ChartContext) ShadowPoints() ([]string, bool) {
	return get[[]string](c, KeyShadowPoints)
}

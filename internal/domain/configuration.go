package domain

import "strings"

// Ayanamsa selects the sidereal reference frame.
type Ayanamsa string

const (
	AyanamsaLahiri       Ayanamsa = "LAHIRI"
	AyanamsaRaman        Ayanamsa = "RAMAN"
	AyanamsaKP           Ayanamsa = "KP"
	AyanamsaFaganBradley Ayanamsa = "FAGAN_BRADLEY"
	AyanamsaTropical     Ayanamsa = "TROPICAL"
)

// HouseSystem selects how house cusps are computed.
type HouseSystem string

const (
	HouseWholeSign HouseSystem = "WHOLE_SIGN"
	HousePlacidus  HouseSystem = "PLACIDUS"
	HouseEqual     HouseSystem = "EQUAL"
	HousePorphyry  HouseSystem = "PORPHYRY"
)

// DashaSystem names a time-period system.
type DashaSystem string

const (
	DashaVimshottari DashaSystem = "VIMSHOTTARI"
	DashaYogini      DashaSystem = "YOGINI"
	DashaChara       DashaSystem = "CHARA"
	DashaNarayana    DashaSystem = "NARAYANA"
)

// ChartType selects which stages the pipeline assembles.
type ChartType string

const (
	ChartNatal   ChartType = "NATAL"
	ChartTransit ChartType = "TRANSIT"
)

// Sections toggles optional analysis stages.
type Sections struct {
	ShadowPoints bool `json:"shadow_points" yaml:"shadow_points" mapstructure:"shadow_points"`
	Vargas       bool `json:"vargas" yaml:"vargas" mapstructure:"vargas"`
	Shadbala     bool `json:"shadbala" yaml:"shadbala" mapstructure:"shadbala"`
	Dashas       bool `json:"dashas" yaml:"dashas" mapstructure:"dashas"`
	Panchanga    bool `json:"panchanga" yaml:"panchanga" mapstructure:"panchanga"`
	Ashtakavarga bool `json:"ashtakavarga" yaml:"ashtakavarga" mapstructure:"ashtakavarga"`
	Yogas        bool `json:"yogas" yaml:"yogas" mapstructure:"yogas"`
	Jaimini      bool `json:"jaimini" yaml:"jaimini" mapstructure:"jaimini"`
	Doshas       bool `json:"doshas" yaml:"doshas" mapstructure:"doshas"`
	Transits     bool `json:"transits" yaml:"transits" mapstructure:"transits"`
}

// Calibration carries tunable coefficients of the strength model.
type Calibration struct {
	// AyanaScale multiplies the declination-based seasonal component.
	// Zero disables it.
	AyanaScale float64 `json:"ayana_scale" yaml:"ayana_scale" mapstructure:"ayana_scale"`
	// KaalaBaseline is added to every planet's temporal component.
	KaalaBaseline float64 `json:"kaala_baseline" yaml:"kaala_baseline" mapstructure:"kaala_baseline"`
}

// Configuration is the immutable set of options for one chart run.
type Configuration struct {
	Ayanamsa     Ayanamsa      `json:"ayanamsa" yaml:"ayanamsa"`
	HouseSystem  HouseSystem   `json:"house_system" yaml:"house_system"`
	Sections     Sections      `json:"sections" yaml:"sections"`
	DashaSystems []DashaSystem `json:"dasha_systems" yaml:"dasha_systems"`
	Calibration  Calibration   `json:"calibration" yaml:"calibration"`
	TransitDays  int           `json:"transit_days" yaml:"transit_days"`
}

// DefaultTransitDays is the forecast window when none is configured.
const DefaultTransitDays = 30

// DefaultConfiguration returns the documented defaults: Lahiri, whole-sign
// houses, every section enabled except transits, Vimshottari only.
func DefaultConfiguration() Configuration {
	return Configuration{
		Ayanamsa:    AyanamsaLahiri,
		HouseSystem: HouseWholeSign,
		Sections: Sections{
			ShadowPoints: true,
			Vargas:       true,
			Shadbala:     true,
			Dashas:       true,
			Panchanga:    true,
			Ashtakavarga: true,
			Yogas:        true,
			Jaimini:      true,
			Doshas:       true,
		},
		DashaSystems: []DashaSystem{DashaVimshottari},
		Calibration:  Calibration{AyanaScale: 1},
		TransitDays:  DefaultTransitDays,
	}
}

// Normalize replaces unrecognized values with their defaults. It never fails.
func (c Configuration) Normalize() Configuration {
	out := c
	out.Ayanamsa = ParseAyanamsa(string(c.Ayanamsa))
	out.HouseSystem = ParseHouseSystem(string(c.HouseSystem))

	out.DashaSystems = nil
	seen := make(map[DashaSystem]bool)
	for _, s := range c.DashaSystems {
		if ds, ok := ParseDashaSystem(string(s)); ok && !seen[ds] {
			seen[ds] = true
			out.DashaSystems = append(out.DashaSystems, ds)
		}
	}
	if len(out.DashaSystems) == 0 {
		out.DashaSystems = []DashaSystem{DashaVimshottari}
	}
	if out.TransitDays <= 0 {
		out.TransitDays = DefaultTransitDays
	}
	if out.Calibration.AyanaScale < 0 {
		out.Calibration.AyanaScale = 0
	}
	return out
}

// HasDasha reports whether the configuration requests system s.
func (c Configuration) HasDasha(s DashaSystem) bool {
	for _, d := range c.DashaSystems {
		if d == s {
			return true
		}
	}
	return false
}

// ParseAyanamsa maps a name to an Ayanamsa, falling back to Lahiri.
func ParseAyanamsa(s string) Ayanamsa {
	switch a := Ayanamsa(strings.ToUpper(strings.TrimSpace(s))); a {
	case AyanamsaLahiri, AyanamsaRaman, AyanamsaKP, AyanamsaFaganBradley, AyanamsaTropical:
		return a
	}
	return AyanamsaLahiri
}

// ParseHouseSystem maps a name to a HouseSystem, falling back to whole-sign.
func ParseHouseSystem(s string) HouseSystem {
	switch h := HouseSystem(strings.ToUpper(strings.TrimSpace(s))); h {
	case HouseWholeSign, HousePlacidus, HouseEqual, HousePorphyry:
		return h
	}
	return HouseWholeSign
}

// ParseDashaSystem maps a name to a DashaSystem.
func ParseDashaSystem(s string) (DashaSystem, bool) {
	switch d := DashaSystem(strings.ToUpper(strings.TrimSpace(s))); d {
	case DashaVimshottari, DashaYogini, DashaChara, DashaNarayana:
		return d, true
	}
	return "", false
}

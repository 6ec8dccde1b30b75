package domain

// PositionalBreakdown itemizes the positional strength component (virupas).
type PositionalBreakdown struct {
	Exaltation float64 `json:"exaltation" yaml:"exaltation"`
	Saptavarga float64 `json:"saptavarga" yaml:"saptavarga"`
	OjaYugma   float64 `json:"oja_yugma" yaml:"oja_yugma"`
	Kendra     float64 `json:"kendra" yaml:"kendra"`
}

// TemporalBreakdown itemizes the temporal strength component (virupas).
type TemporalBreakdown struct {
	DayNight float64 `json:"day_night" yaml:"day_night"`
	Paksha   float64 `json:"paksha" yaml:"paksha"`
	Ayana    float64 `json:"ayana" yaml:"ayana"`
	Baseline float64 `json:"baseline" yaml:"baseline"`
}

// StrengthComponents are the six strength components, in virupas.
type StrengthComponents struct {
	Positional  float64 `json:"positional" yaml:"positional"`
	Directional float64 `json:"directional" yaml:"directional"`
	Temporal    float64 `json:"temporal" yaml:"temporal"`
	Motional    float64 `json:"motional" yaml:"motional"`
	Natural     float64 `json:"natural" yaml:"natural"`
	Aspectual   float64 `json:"aspectual" yaml:"aspectual"`
}

// Sum totals all components.
func (c StrengthComponents) Sum() float64 {
	return c.Positional + c.Directional + c.Temporal + c.Motional + c.Natural + c.Aspectual
}

// StrengthReport is the six-fold strength of one planet.
type StrengthReport struct {
	Planet     string              `json:"planet" yaml:"planet"`
	Components StrengthComponents  `json:"components" yaml:"components"`
	Positional PositionalBreakdown `json:"positional_breakdown" yaml:"positional_breakdown"`
	Temporal   TemporalBreakdown   `json:"temporal_breakdown" yaml:"temporal_breakdown"`
	Total      float64             `json:"total" yaml:"total"` // virupas
	Rupas      float64             `json:"rupas" yaml:"rupas"` // Total / 60
	Required   float64             `json:"required" yaml:"required"`
	Ratio      float64             `json:"ratio" yaml:"ratio"`
	IsStrong   bool                `json:"is_strong" yaml:"is_strong"`
}

// StrengthRecord is a persisted strength report.
type StrengthRecord struct {
	ChartID string
	StrengthReport
}

// ChartRecord is the persisted summary of one computed chart.
type ChartRecord struct {
	ChartID     string
	Label       string
	BirthJD     float64
	Latitude    float64
	Longitude   float64
	Ayanamsa    Ayanamsa
	HouseSystem HouseSystem
	Ascendant   float64
	MoonLong    float64
	CreatedAt   int64 // Unix ms
}

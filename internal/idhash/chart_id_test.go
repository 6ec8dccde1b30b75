package idhash

import (
	"testing"

	"github.com/mr-tron/base58"

	"jyotish-lab/internal/domain"
)

var sample = domain.BirthInput{
	Label:     "sample",
	Year:      1990,
	Month:     7,
	Day:       15,
	Hour:      6,
	Minute:    30,
	Latitude:  19.076,
	Longitude: 72.8777,
}

func TestComputeChartID_Determinism(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	first := ComputeChartID(sample, cfg)
	for i := 0; i < 10; i++ {
		if got := ComputeChartID(sample, cfg); got != first {
			t.Fatalf("not deterministic: %s != %s", got, first)
		}
	}

	raw, err := base58.Decode(first)
	if err != nil {
		t.Fatalf("chart id is not base58: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("expected a 32-byte digest, got %d", len(raw))
	}
}

func TestComputeChartID_SameInstantDifferentZone(t *testing.T) {
	cfg := domain.DefaultConfiguration()

	// 06:30 UTC expressed as 12:00 at +05:30.
	local := sample
	local.Hour = 12
	local.Minute = 0
	local.UTCOffsetMinutes = 330

	if ComputeChartID(sample, cfg) != ComputeChartID(local, cfg) {
		t.Error("the same instant should hash identically")
	}
}

func TestComputeChartID_LabelIgnored(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	other := sample
	other.Label = "renamed"
	if ComputeChartID(sample, cfg) != ComputeChartID(other, cfg) {
		t.Error("label must not affect the id")
	}
}

func TestComputeChartID_Uniqueness(t *testing.T) {
	base := domain.DefaultConfiguration()

	tests := []struct {
		name   string
		input  func(*domain.BirthInput)
		config func(*domain.Configuration)
	}{
		{name: "latitude", input: func(b *domain.BirthInput) { b.Latitude = 19.077 }},
		{name: "minute", input: func(b *domain.BirthInput) { b.Minute = 31 }},
		{name: "ayanamsa", config: func(c *domain.Configuration) { c.Ayanamsa = domain.AyanamsaRaman }},
		{name: "house system", config: func(c *domain.Configuration) { c.HouseSystem = domain.HousePlacidus }},
		{name: "dashas", config: func(c *domain.Configuration) { c.DashaSystems = []domain.DashaSystem{domain.DashaYogini} }},
		{name: "calibration", config: func(c *domain.Configuration) { c.Calibration.KaalaBaseline = 5 }},
	}

	seen := map[string]string{ComputeChartID(sample, base): "base"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, cfg := sample, base
			if tt.input != nil {
				tt.input(&in)
			}
			if tt.config != nil {
				tt.config(&cfg)
			}
			got := ComputeChartID(in, cfg)
			if prev, ok := seen[got]; ok {
				t.Errorf("collision with %s", prev)
			}
			seen[got] = tt.name
		})
	}
}

func TestComputeChartID_NormalizedConfig(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	messy := cfg
	messy.Ayanamsa = "lahiri"
	messy.DashaSystems = nil
	if ComputeChartID(sample, cfg) != ComputeChartID(sample, messy) {
		t.Error("equivalent configurations should hash identically")
	}
}

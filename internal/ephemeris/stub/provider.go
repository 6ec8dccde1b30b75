// Package stub provides a fixed-table ephemeris for tests and offline runs.
package stub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
)

// Provider returns the same positions for every instant. Bodies missing
// from the table yield ephemeris.ErrBodyUnavailable.
type Provider struct {
	Bodies  map[int]ephemeris.Position
	House   ephemeris.Houses
	Rise    ephemeris.RiseSet
	Motion  map[int]float64 // optional degrees/day drift applied from Epoch
	Epoch   float64
	Failing map[int]error
	Calls   int
}

var _ ephemeris.Provider = (*Provider)(nil)

// NewProvider creates an empty stub with whole-sign houses from 0° Aries.
func NewProvider() *Provider {
	p := &Provider{
		Bodies:  make(map[int]ephemeris.Position),
		Motion:  make(map[int]float64),
		Failing: make(map[int]error),
	}
	p.SetAscendant(0)
	return p
}

// SetAscendant sets the ascendant and derives whole-sign cusps from it.
func (p *Provider) SetAscendant(asc float64) {
	p.House.Ascendant = domain.NormalizeLongitude(asc)
	first := float64(domain.SignOf(asc)-1) * domain.SignWidth
	for i := range p.House.Cusps {
		p.House.Cusps[i] = domain.NormalizeLongitude(first + float64(i)*domain.SignWidth)
	}
}

// Set stores a body position.
func (p *Provider) Set(bodyID int, lon, speed, decl float64) *Provider {
	p.Bodies[bodyID] = ephemeris.Position{Longitude: lon, Speed: speed, Declination: decl}
	return p
}

// Position implements ephemeris.Provider. When Motion holds a rate for the
// body, the longitude advances linearly from Epoch.
func (p *Provider) Position(_ context.Context, jd float64, bodyID int, _ domain.Ayanamsa) (ephemeris.Position, error) {
	p.Calls++
	if err, ok := p.Failing[bodyID]; ok {
		return ephemeris.Position{}, err
	}
	pos, ok := p.Bodies[bodyID]
	if !ok {
		return ephemeris.Position{}, fmt.Errorf("body %d: %w", bodyID, ephemeris.ErrBodyUnavailable)
	}
	if rate, ok := p.Motion[bodyID]; ok && p.Epoch != 0 {
		pos.Longitude = domain.NormalizeLongitude(pos.Longitude + rate*(jd-p.Epoch))
	}
	return pos, nil
}

// Houses implements ephemeris.Provider.
func (p *Provider) Houses(_ context.Context, _, _, _ float64, _ domain.HouseSystem, _ domain.Ayanamsa) (ephemeris.Houses, error) {
	return p.House, nil
}

// RiseSet implements ephemeris.Provider.
func (p *Provider) RiseSet(_ context.Context, _, _, _ float64) (ephemeris.RiseSet, error) {
	return p.Rise, nil
}

// Fixture is the on-disk form of a stub table.
type Fixture struct {
	Ascendant float64       `yaml:"ascendant" toml:"ascendant"`
	Sunrise   float64       `yaml:"sunrise" toml:"sunrise"`
	Sunset    float64       `yaml:"sunset" toml:"sunset"`
	Epoch     float64       `yaml:"epoch" toml:"epoch"`
	Bodies    []FixtureBody `yaml:"bodies" toml:"bodies"`
}

// FixtureBody is one body row of a Fixture.
type FixtureBody struct {
	ID          int     `yaml:"id" toml:"id"`
	Longitude   float64 `yaml:"longitude" toml:"longitude"`
	Speed       float64 `yaml:"speed" toml:"speed"`
	Declination float64 `yaml:"declination" toml:"declination"`
}

// LoadFixture reads a YAML or TOML fixture, chosen by file extension.
func LoadFixture(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fx Fixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fx)
	default:
		err = yaml.Unmarshal(data, &fx)
	}
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return FromFixture(fx), nil
}

// FromFixture builds a provider from a decoded fixture. Bodies move at
// their listed speed from Epoch when Epoch is set.
func FromFixture(fx Fixture) *Provider {
	p := NewProvider()
	p.SetAscendant(fx.Ascendant)
	p.Rise = ephemeris.RiseSet{Sunrise: fx.Sunrise, Sunset: fx.Sunset}
	p.Epoch = fx.Epoch
	for _, b := range fx.Bodies {
		p.Set(b.ID, b.Longitude, b.Speed, b.Declination)
		if fx.Epoch != 0 {
			p.Motion[b.ID] = b.Speed
		}
	}
	return p
}

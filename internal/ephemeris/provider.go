// Package ephemeris defines the astronomical position source consumed by the
// chart pipeline, with HTTP and WebSocket JSON-RPC clients for a remote
// ephemeris service.
package ephemeris

import (
	"context"
	"errors"

	"jyotish-lab/internal/domain"
)

var (
	// ErrBodyUnavailable is returned when a body's position cannot be computed.
	ErrBodyUnavailable = errors.New("body position unavailable")
	// ErrHousesUnavailable is returned when house cusps cannot be computed.
	ErrHousesUnavailable = errors.New("house cusps unavailable")
)

// Position is the apparent place of a body.
type Position struct {
	Longitude   float64 `json:"longitude" yaml:"longitude" toml:"longitude"`
	Speed       float64 `json:"speed" yaml:"speed" toml:"speed"` // degrees per day
	Declination float64 `json:"declination" yaml:"declination" toml:"declination"`
}

// Houses holds the ascendant and twelve cusps.
type Houses struct {
	Ascendant float64     `json:"ascendant" yaml:"ascendant" toml:"ascendant"`
	Cusps     [12]float64 `json:"cusps" yaml:"cusps" toml:"cusps"`
}

// RiseSet holds sunrise and sunset Julian Days. Zero values are the
// sentinel for degenerate geometry such as polar day or night.
type RiseSet struct {
	Sunrise float64 `json:"sunrise" yaml:"sunrise" toml:"sunrise"`
	Sunset  float64 `json:"sunset" yaml:"sunset" toml:"sunset"`
}

// Valid reports whether both instants were computed.
func (r RiseSet) Valid() bool {
	return r.Sunrise != 0 && r.Sunset != 0
}

// Provider computes positions. Implementations must be pure functions of
// their arguments so that chart runs are reproducible.
type Provider interface {
	// Position returns the sidereal (or tropical) position of a body.
	Position(ctx context.Context, jd float64, bodyID int, mode domain.Ayanamsa) (Position, error)

	// Houses returns the ascendant and cusps for a location.
	Houses(ctx context.Context, jd, lat, lon float64, system domain.HouseSystem, mode domain.Ayanamsa) (Houses, error)

	// RiseSet returns sunrise and sunset bracketing the day of jd.
	RiseSet(ctx context.Context, jd, lat, lon float64) (RiseSet, error)
}

// HouseSystemCode maps a house system to its single-letter wire code.
func HouseSystemCode(h domain.HouseSystem) string {
	switch h {
	case domain.HousePlacidus:
		return "P"
	case domain.HouseEqual:
		return "E"
	case domain.HousePorphyry:
		return "O"
	default:
		return "W"
	}
}

// Package idhash derives stable identifiers for stored charts.
package idhash

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"jyotish-lab/internal/domain"
)

// ComputeChartID computes a deterministic chart_id.
// Formula: base58(SHA256(utc_instant|lat|lon|ayanamsa|house_system|dashas|ayana_scale|kaala_baseline))
// Coordinates are fixed to six decimals so that float formatting cannot
// change the hash. The label is not part of the identity.
func ComputeChartID(in domain.BirthInput, cfg domain.Configuration) string {
	cfg = cfg.Normalize()

	dashas := make([]string, len(cfg.DashaSystems))
	for i, d := range cfg.DashaSystems {
		dashas[i] = string(d)
	}

	data := fmt.Sprintf("%s|%.6f|%.6f|%s|%s|%s|%.6f|%.6f",
		in.Instant().Format("2006-01-02T15:04:05Z"),
		in.Latitude,
		in.Longitude,
		cfg.Ayanamsa,
		cfg.HouseSystem,
		strings.Join(dashas, ","),
		cfg.Calibration.AyanaScale,
		cfg.Calibration.KaalaBaseline,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// Package upagraha derives shadow points from the positions of real bodies.
package upagraha

import (
	"math"

	"jyotish-lab/internal/domain"
)

// Shadow point names.
const (
	Dhooma      = "Dhooma"
	Vyatipata   = "Vyatipata"
	Parivesha   = "Parivesha"
	IndraChapa  = "IndraChapa"
	Upaketu     = "Upaketu"
	Gulika      = "Gulika"
	Mandi       = "Mandi"
	BhriguBindu = "BhriguBindu"
)

// KetuLongitude is the point opposite Rahu.
func KetuLongitude(rahu float64) float64 {
	return domain.NormalizeLongitude(rahu + 180)
}

// SunBased returns the five shadow points derived from the Sun's longitude.
func SunBased(sun float64) map[string]float64 {
	dhooma := domain.NormalizeLongitude(sun + 133 + 1.0/3)
	vyatipata := domain.NormalizeLongitude(360 - dhooma)
	parivesha := domain.NormalizeLongitude(vyatipata + 180)
	indraChapa := domain.NormalizeLongitude(360 - parivesha)
	upaketu := domain.NormalizeLongitude(indraChapa + 16 + 2.0/3)
	return map[string]float64{
		Dhooma:     dhooma,
		Vyatipata:  vyatipata,
		Parivesha:  parivesha,
		IndraChapa: indraChapa,
		Upaketu:    upaketu,
	}
}

// BhriguBinduLongitude is the midpoint of the arc from Rahu forward to the Moon.
func BhriguBinduLongitude(moon, rahu float64) float64 {
	arc := domain.NormalizeLongitude(moon - rahu)
	return domain.NormalizeLongitude(rahu + arc/2)
}

// Weekday returns 0 for Sunday through 6 for Saturday for the local civil
// day containing jd. offsetMinutes is the zone offset east of UTC.
func Weekday(jd float64, offsetMinutes int) int {
	return int(math.Floor(jd+1.5+float64(offsetMinutes)/1440)) % 7
}

// Kalavela holds the instants whose rising degree gives Gulika and Mandi.
type Kalavela struct {
	Gulika float64
	Mandi  float64
}

// KalavelaInstants finds the start (Gulika) and middle (Mandi) of Saturn's
// eighth of the day or night containing jd. The day lord is the weekday of
// the local date of sunrise. It reports false when rise/set data is degenerate.
func KalavelaInstants(jd, sunrise, sunset float64, offsetMinutes int) (Kalavela, bool) {
	if sunrise == 0 || sunset == 0 || sunset <= sunrise {
		return Kalavela{}, false
	}

	day := jd >= sunrise && jd < sunset
	var start, length float64
	var lord int
	wd := Weekday(sunrise, offsetMinutes)
	switch {
	case day:
		start, length = sunrise, sunset-sunrise
		lord = wd
	case jd >= sunset:
		start, length = sunset, 1-(sunset-sunrise)
		lord = (wd + 4) % 7
	default:
		// Before sunrise: the night that began the previous evening.
		length = 1 - (sunset - sunrise)
		start = sunrise - length
		lord = (wd - 1 + 4 + 7) % 7
	}

	// Segments are ruled in weekday order from lord; Saturn is 6.
	seg := (6 - lord + 7) % 7
	part := length / 8
	gulika := start + float64(seg)*part
	return Kalavela{Gulika: gulika, Mandi: gulika + part/2}, true
}

package domain

import "math"

// Zodiac constants.
const (
	SignCount      = 12
	SignWidth      = 30.0
	NakshatraCount = 27
	NakshatraSpan  = 360.0 / NakshatraCount
	PadaSpan       = NakshatraSpan / 4
)

// SignNames indexed by sign number - 1.
var SignNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// NakshatraNames indexed by nakshatra number - 1.
var NakshatraNames = [NakshatraCount]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// NormalizeLongitude maps any angle into [0, 360).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	return lon
}

// NormalizeSign wraps any integer into the 1..12 range.
func NormalizeSign(n int) int {
	r := (n - 1) % SignCount
	if r < 0 {
		r += SignCount
	}
	return r + 1
}

// SignOf returns the 1-based sign containing lon.
func SignOf(lon float64) int {
	return int(NormalizeLongitude(lon)/SignWidth) + 1
}

// DegreeInSign returns the offset of lon inside its sign, [0, 30).
func DegreeInSign(lon float64) float64 {
	return math.Mod(NormalizeLongitude(lon), SignWidth)
}

// NakshatraOf returns the 1-based lunar mansion containing lon.
func NakshatraOf(lon float64) int {
	n := int(NormalizeLongitude(lon)/NakshatraSpan) + 1
	if n > NakshatraCount {
		n = NakshatraCount
	}
	return n
}

// PadaOf returns the 1-based quarter of the nakshatra containing lon.
func PadaOf(lon float64) int {
	p := int(math.Mod(NormalizeLongitude(lon), NakshatraSpan)/PadaSpan) + 1
	if p > 4 {
		p = 4
	}
	return p
}

// HouseFrom returns the whole-sign house of sign counted from ascSign.
func HouseFrom(ascSign, sign int) int {
	return NormalizeSign(sign - ascSign + 1)
}

// SignDistance is the forward count from one sign to another, 0..11.
func SignDistance(from, to int) int {
	d := (to - from) % SignCount
	if d < 0 {
		d += SignCount
	}
	return d
}

// ArcDistance is the shortest angular separation of two longitudes, [0, 180].
func ArcDistance(a, b float64) float64 {
	d := math.Abs(NormalizeLongitude(a) - NormalizeLongitude(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// IsOddSign reports whether sign is odd (Aries, Gemini, ...).
func IsOddSign(sign int) bool {
	return NormalizeSign(sign)%2 == 1
}

// Modality of a sign.
type Modality int

const (
	Movable Modality = iota
	Fixed
	Dual
)

// ModalityOf classifies sign as movable, fixed or dual.
func ModalityOf(sign int) Modality {
	return Modality((NormalizeSign(sign) - 1) % 3)
}

// SignName returns the name of a 1-based sign.
func SignName(sign int) string {
	return SignNames[NormalizeSign(sign)-1]
}

// NakshatraName returns the name of a 1-based nakshatra.
func NakshatraName(n int) string {
	i := (n - 1) % NakshatraCount
	if i < 0 {
		i += NakshatraCount
	}
	return NakshatraNames[i]
}

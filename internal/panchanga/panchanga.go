// Package panchanga computes the five limbs of the Hindu calendar day:
// tithi, vara, nakshatra, yoga and karana.
package panchanga

import (
	"math"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/upagraha"
)

const (
	tithiSpan  = 12.0
	karanaSpan = 6.0
	yogaSpan   = 360.0 / 27
)

var tithiNames = [15]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
}

var yogaNames = [27]string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda",
	"Sukarma", "Dhriti", "Shula", "Ganda", "Vriddhi", "Dhruva",
	"Vyaghata", "Harshana", "Vajra", "Siddhi", "Vyatipata", "Variyana",
	"Parigha", "Shiva", "Siddha", "Sadhya", "Shubha", "Shukla",
	"Brahma", "Indra", "Vaidhriti",
}

var movableKaranas = [7]string{"Bava", "Balava", "Kaulava", "Taitila", "Garaja", "Vanija", "Vishti"}

var varaNames = [7]string{"Ravivara", "Somavara", "Mangalavara", "Budhavara", "Guruvara", "Shukravara", "Shanivara"}

var varaLords = [7]string{domain.Sun, domain.Moon, domain.Mars, domain.Mercury, domain.Jupiter, domain.Venus, domain.Saturn}

// Tithi is the lunar day.
type Tithi struct {
	Index      int     `json:"index" yaml:"index"` // 1..30
	Name       string  `json:"name" yaml:"name"`
	Paksha     string  `json:"paksha" yaml:"paksha"`
	Completion float64 `json:"completion" yaml:"completion"` // fraction elapsed
}

// Nakshatra is the Moon's lunar mansion.
type Nakshatra struct {
	Index      int     `json:"index" yaml:"index"`
	Name       string  `json:"name" yaml:"name"`
	Pada       int     `json:"pada" yaml:"pada"`
	Completion float64 `json:"completion" yaml:"completion"`
}

// Yoga is the luni-solar yoga.
type Yoga struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
}

// Karana is the half lunar day.
type Karana struct {
	Index int    `json:"index" yaml:"index"` // 1..60
	Name  string `json:"name" yaml:"name"`
}

// Vara is the weekday counted from sunrise.
type Vara struct {
	Index int    `json:"index" yaml:"index"` // 0 = Sunday
	Name  string `json:"name" yaml:"name"`
	Lord  string `json:"lord" yaml:"lord"`
}

// Panchanga is the full almanac entry for an instant.
type Panchanga struct {
	Tithi     Tithi     `json:"tithi" yaml:"tithi"`
	Vara      Vara      `json:"vara" yaml:"vara"`
	Nakshatra Nakshatra `json:"nakshatra" yaml:"nakshatra"`
	Yoga      Yoga      `json:"yoga" yaml:"yoga"`
	Karana    Karana    `json:"karana" yaml:"karana"`
}

// Compute builds the almanac from Sun and Moon longitudes. sunrise may be
// zero when unknown, in which case the local civil weekday is used.
// offsetMinutes is the birth zone offset east of UTC.
func Compute(sun, moon, jd, sunrise float64, offsetMinutes int) Panchanga {
	return Panchanga{
		Tithi:     TithiOf(sun, moon),
		Vara:      VaraOf(jd, sunrise, offsetMinutes),
		Nakshatra: NakshatraOf(moon),
		Yoga:      YogaOf(sun, moon),
		Karana:    KaranaOf(sun, moon),
	}
}

// TithiOf returns the lunar day for the given luminaries.
func TithiOf(sun, moon float64) Tithi {
	angle := domain.NormalizeLongitude(moon - sun)
	idx := int(angle/tithiSpan) + 1
	paksha := "Shukla"
	name := tithiNames[(idx-1)%15]
	if idx > 15 {
		paksha = "Krishna"
		if idx == 30 {
			name = "Amavasya"
		}
	}
	return Tithi{
		Index:      idx,
		Name:       name,
		Paksha:     paksha,
		Completion: math.Mod(angle, tithiSpan) / tithiSpan,
	}
}

// NakshatraOf returns the mansion of the Moon.
func NakshatraOf(moon float64) Nakshatra {
	lon := domain.NormalizeLongitude(moon)
	idx := domain.NakshatraOf(lon)
	return Nakshatra{
		Index:      idx,
		Name:       domain.NakshatraName(idx),
		Pada:       domain.PadaOf(lon),
		Completion: math.Mod(lon, domain.NakshatraSpan) / domain.NakshatraSpan,
	}
}

// YogaOf returns the yoga of the summed longitudes.
func YogaOf(sun, moon float64) Yoga {
	idx := int(domain.NormalizeLongitude(sun+moon)/yogaSpan) + 1
	if idx > 27 {
		idx = 27
	}
	return Yoga{Index: idx, Name: yogaNames[idx-1]}
}

// KaranaOf returns the half-tithi.
func KaranaOf(sun, moon float64) Karana {
	k := int(domain.NormalizeLongitude(moon-sun) / karanaSpan) // 0..59
	var name string
	switch {
	case k == 0:
		name = "Kimstughna"
	case k >= 57:
		name = [3]string{"Shakuni", "Chatushpada", "Naga"}[k-57]
	default:
		name = movableKaranas[(k-1)%7]
	}
	return Karana{Index: k + 1, Name: name}
}

// VaraOf returns the weekday. The Vedic day runs from sunrise, so an
// instant before sunrise belongs to the previous weekday.
func VaraOf(jd, sunrise float64, offsetMinutes int) Vara {
	wd := upagraha.Weekday(jd, offsetMinutes)
	if sunrise != 0 && jd < sunrise && upagraha.Weekday(sunrise, offsetMinutes) == wd {
		wd = (wd + 6) % 7
	}
	return Vara{Index: wd, Name: varaNames[wd], Lord: varaLords[wd]}
}

package yoga

import "jyotish-lab/internal/domain"

// Manglik is the Kuja dosha assessment.
type Manglik struct {
	Present   bool   `json:"present" yaml:"present"`
	MarsHouse int    `json:"mars_house" yaml:"mars_house"`
	Cancelled bool   `json:"cancelled" yaml:"cancelled"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// KalaSarpa reports whether every classical planet is hemmed between the
// nodes.
type KalaSarpa struct {
	Present   bool   `json:"present" yaml:"present"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	RahuHouse int    `json:"rahu_house" yaml:"rahu_house"`
}

// Doshas groups the afflictions checked for a chart. A nil field means the
// bodies it needs are absent.
type Doshas struct {
	Manglik   *Manglik   `json:"manglik,omitempty" yaml:"manglik,omitempty"`
	KalaSarpa *KalaSarpa `json:"kala_sarpa,omitempty" yaml:"kala_sarpa,omitempty"`
}

// Kala sarpa kinds.
const (
	KindKalaSarpa  = "Kala Sarpa"
	KindKalaAmrita = "Kala Amrita"
)

var manglikHouses = map[int]bool{1: true, 2: true, 4: true, 7: true, 8: true, 12: true}

// kalaSarpaNames is indexed by Rahu's house - 1.
var kalaSarpaNames = [12]string{
	"Ananta", "Kulika", "Vasuki", "Shankhapala", "Padma", "Mahapadma",
	"Takshaka", "Karkotaka", "Shankhachuda", "Ghataka", "Vishdhara", "Sheshanaga",
}

// DetectDoshas checks Kuja dosha and the kala sarpa configuration.
func DetectDoshas(ascendant float64, bodies map[string]*domain.CelestialBodyPosition) Doshas {
	asc := domain.SignOf(ascendant)
	var d Doshas

	if mars, ok := bodies[domain.Mars]; ok {
		house := domain.HouseFrom(asc, mars.Sign)
		m := &Manglik{MarsHouse: house}
		if manglikHouses[house] {
			// Mars in Aries or Scorpio protects its own houses.
			if mars.Sign == 1 || mars.Sign == 8 {
				m.Cancelled = true
				m.Reason = "Mars in own sign"
			} else {
				m.Present = true
			}
		}
		d.Manglik = m
	}

	if rahu, ok := bodies[domain.Rahu]; ok {
		d.KalaSarpa = kalaSarpa(asc, rahu, bodies)
	}
	return d
}

func kalaSarpa(asc int, rahu *domain.CelestialBodyPosition, bodies map[string]*domain.CelestialBodyPosition) *KalaSarpa {
	ks := &KalaSarpa{RahuHouse: domain.HouseFrom(asc, rahu.Sign)}
	afterRahu, afterKetu, seen := 0, 0, 0
	for _, p := range domain.ClassicalPlanets {
		b, ok := bodies[p]
		if !ok {
			continue
		}
		seen++
		arc := domain.NormalizeLongitude(b.Longitude - rahu.Longitude)
		// A planet on a node counts for both sides.
		if arc <= 180 {
			afterRahu++
		}
		if arc >= 180 || arc == 0 {
			afterKetu++
		}
	}
	if seen == 0 {
		return ks
	}
	switch seen {
	case afterRahu:
		ks.Present, ks.Kind = true, KindKalaSarpa
	case afterKetu:
		ks.Present, ks.Kind = true, KindKalaAmrita
	}
	if ks.Present {
		ks.Name = kalaSarpaNames[ks.RahuHouse-1]
	}
	return ks
}

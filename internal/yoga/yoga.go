// Package yoga detects classical planetary combinations in a natal chart.
package yoga

import (
	"fmt"
	"sort"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/maitri"
)

// Yoga is one detected combination.
type Yoga struct {
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Planets     []string `json:"planets" yaml:"planets"`
	Description string   `json:"description" yaml:"description"`
}

// Categories.
const (
	CategoryRaja        = "Raja"
	CategoryVipareeta   = "Vipareeta"
	CategoryMahapurusha = "Mahapurusha"
	CategoryLunar       = "Lunar"
)

var exaltationSign = map[string]int{
	domain.Sun:     1,
	domain.Moon:    2,
	domain.Mars:    10,
	domain.Mercury: 6,
	domain.Jupiter: 4,
	domain.Venus:   12,
	domain.Saturn:  7,
}

var mahapurusha = []struct {
	planet string
	name   string
}{
	{domain.Mars, "Ruchaka"},
	{domain.Mercury, "Bhadra"},
	{domain.Jupiter, "Hamsa"},
	{domain.Venus, "Malavya"},
	{domain.Saturn, "Sasa"},
}

// Detector finds yogas using a relationship engine for sign lordship.
type Detector struct {
	rel *maitri.Engine
}

// NewDetector creates a detector.
func NewDetector(rel *maitri.Engine) *Detector {
	if rel == nil {
		rel = maitri.NewDefault()
	}
	return &Detector{rel: rel}
}

type chart struct {
	ascSign int
	bodies  map[string]*domain.CelestialBodyPosition
	rel     *maitri.Engine
}

func (c chart) lord(house int) string {
	return c.rel.Ruler(c.ascSign + house - 1)
}

func (c chart) houseOf(planet string) (int, bool) {
	b, ok := c.bodies[planet]
	if !ok {
		return 0, false
	}
	return domain.HouseFrom(c.ascSign, b.Sign), true
}

// connected reports conjunction, exchange of signs or mutual seventh-house aspect.
func (c chart) connected(a, b string) (string, bool) {
	pa, okA := c.bodies[a]
	pb, okB := c.bodies[b]
	if !okA || !okB {
		return "", false
	}
	switch {
	case pa.Sign == pb.Sign:
		return "conjunction", true
	case c.rel.Ruler(pa.Sign) == b && c.rel.Ruler(pb.Sign) == a:
		return "exchange", true
	case domain.SignDistance(pa.Sign, pb.Sign) == 6:
		return "mutual aspect", true
	}
	return "", false
}

// Detect returns every yoga present, sorted by name.
func (d *Detector) Detect(ascendant float64, bodies map[string]*domain.CelestialBodyPosition) []Yoga {
	c := chart{ascSign: domain.SignOf(ascendant), bodies: bodies, rel: d.rel}

	var out []Yoga
	out = append(out, c.dharmaKarmadhipati()...)
	out = append(out, c.kendraTrikona()...)
	out = append(out, c.vipareeta()...)
	out = append(out, c.mahapurusha()...)
	out = append(out, c.gajakesari()...)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c chart) dharmaKarmadhipati() []Yoga {
	l9, l10 := c.lord(9), c.lord(10)
	if l9 == l10 {
		if _, ok := c.bodies[l9]; !ok {
			return nil
		}
		return []Yoga{{
			Name:        "Dharma-Karmadhipati",
			Category:    CategoryRaja,
			Planets:     []string{l9},
			Description: fmt.Sprintf("%s rules both the 9th and 10th houses", l9),
		}}
	}
	how, ok := c.connected(l9, l10)
	if !ok {
		return nil
	}
	return []Yoga{{
		Name:        "Dharma-Karmadhipati",
		Category:    CategoryRaja,
		Planets:     []string{l9, l10},
		Description: fmt.Sprintf("lords of 9th (%s) and 10th (%s) in %s", l9, l10, how),
	}}
}

func (c chart) kendraTrikona() []Yoga {
	var out []Yoga
	seen := make(map[string]bool)
	for _, k := range []int{4, 7, 10} {
		for _, tr := range []int{5, 9} {
			lk, lt := c.lord(k), c.lord(tr)
			if lk == lt {
				continue
			}
			key := lk + "|" + lt
			if seen[key] {
				continue
			}
			if how, ok := c.connected(lk, lt); ok {
				seen[key] = true
				out = append(out, Yoga{
					Name:        "Raja",
					Category:    CategoryRaja,
					Planets:     []string{lk, lt},
					Description: fmt.Sprintf("lord of %d (%s) and lord of %d (%s) in %s", k, lk, tr, lt, how),
				})
			}
		}
	}
	return out
}

func (c chart) vipareeta() []Yoga {
	dusthana := map[int]bool{6: true, 8: true, 12: true}
	names := map[int]string{6: "Harsha", 8: "Sarala", 12: "Vimala"}

	var out []Yoga
	for _, h := range []int{6, 8, 12} {
		lord := c.lord(h)
		house, ok := c.houseOf(lord)
		if !ok || !dusthana[house] {
			continue
		}
		out = append(out, Yoga{
			Name:        names[h],
			Category:    CategoryVipareeta,
			Planets:     []string{lord},
			Description: fmt.Sprintf("lord of %d (%s) placed in house %d", h, lord, house),
		})
	}
	return out
}

func (c chart) mahapurusha() []Yoga {
	var out []Yoga
	for _, m := range mahapurusha {
		b, ok := c.bodies[m.planet]
		if !ok {
			continue
		}
		house := domain.HouseFrom(c.ascSign, b.Sign)
		if house != 1 && house != 4 && house != 7 && house != 10 {
			continue
		}
		dignity := ""
		switch {
		case exaltationSign[m.planet] == b.Sign:
			dignity = "exalted"
		case c.rel.Ruler(b.Sign) == m.planet:
			dignity = "in own sign"
		default:
			continue
		}
		out = append(out, Yoga{
			Name:        m.name,
			Category:    CategoryMahapurusha,
			Planets:     []string{m.planet},
			Description: fmt.Sprintf("%s %s in house %d", m.planet, dignity, house),
		})
	}
	return out
}

func (c chart) gajakesari() []Yoga {
	moon, okM := c.bodies[domain.Moon]
	jup, okJ := c.bodies[domain.Jupiter]
	if !okM || !okJ {
		return nil
	}
	if domain.SignDistance(moon.Sign, jup.Sign)%3 != 0 {
		return nil
	}
	return []Yoga{{
		Name:        "Gajakesari",
		Category:    CategoryLunar,
		Planets:     []string{domain.Jupiter, domain.Moon},
		Description: "Jupiter in an angle from the Moon",
	}}
}

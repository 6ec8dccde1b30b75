// Package jaimini computes the sign-based indicators of the Jaimini
// system: chara karakas, arudha padas, sign aspects and the raja yogas
// formed between karakas.
package jaimini

import (
	"fmt"
	"sort"

	"jyotish-lab/internal/domain"
)

// Rulers resolves the lord of a 1-based sign.
type Rulers interface {
	Ruler(sign int) string
}

// Karaka is one significator role and the planet holding it.
type Karaka struct {
	Role   string  `json:"role" yaml:"role"`
	Code   string  `json:"code" yaml:"code"`
	Planet string  `json:"planet" yaml:"planet"`
	Degree float64 `json:"degree" yaml:"degree"`
}

type role struct {
	name, code string
}

var sevenRoles = []role{
	{"Atmakaraka", "AK"},
	{"Amatyakaraka", "AmK"},
	{"Bhratrukaraka", "BK"},
	{"Matrukaraka", "MK"},
	{"Putrakaraka", "PK"},
	{"Gnatikaraka", "GK"},
	{"Darakaraka", "DK"},
}

var eightRoles = []role{
	{"Atmakaraka", "AK"},
	{"Amatyakaraka", "AmK"},
	{"Bhratrukaraka", "BK"},
	{"Matrukaraka", "MK"},
	{"Pitrikaraka", "PiK"},
	{"Putrakaraka", "PK"},
	{"Gnatikaraka", "GK"},
	{"Darakaraka", "DK"},
}

// Karakas ranks planets by degree within their sign, highest first. The
// eight-karaka scheme adds Rahu, whose degree is counted back from 30.
func Karakas(bodies map[string]*domain.CelestialBodyPosition, eight bool) []Karaka {
	roles := sevenRoles
	candidates := append([]string(nil), domain.ClassicalPlanets...)
	if eight {
		roles = eightRoles
		candidates = append(candidates, domain.Rahu)
	}

	var ranked []Karaka
	for _, name := range candidates {
		b, ok := bodies[name]
		if !ok {
			continue
		}
		deg := b.Degree
		if name == domain.Rahu {
			deg = domain.SignWidth - deg
		}
		ranked = append(ranked, Karaka{Planet: name, Degree: deg})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Degree > ranked[j].Degree })

	if len(ranked) > len(roles) {
		ranked = ranked[:len(roles)]
	}
	for i := range ranked {
		ranked[i].Role = roles[i].name
		ranked[i].Code = roles[i].code
	}
	return ranked
}

// Arudha is the pada of one house.
type Arudha struct {
	House    int    `json:"house" yaml:"house"`
	Key      string `json:"key" yaml:"key"`
	Sign     int    `json:"sign" yaml:"sign"`
	SignName string `json:"sign_name" yaml:"sign_name"`
}

// Arudhas projects each house through its lord: the pada lies as far from
// the lord as the lord is from the house. A pada falling in the house itself
// moves to the 10th from it; one falling in the 7th moves to the 4th.
// A lord missing from signs is treated as sitting in its own house.
func Arudhas(ascSign int, signs map[string]int, rulers Rulers) []Arudha {
	out := make([]Arudha, 0, domain.SignCount)
	for house := 1; house <= domain.SignCount; house++ {
		hs := domain.NormalizeSign(ascSign + house - 1)
		ls, ok := signs[rulers.Ruler(hs)]
		if !ok {
			ls = hs
		}
		pada := domain.NormalizeSign(ls + domain.SignDistance(hs, ls))
		switch domain.SignDistance(hs, pada) {
		case 0:
			pada = domain.NormalizeSign(hs + 9)
		case 6:
			pada = domain.NormalizeSign(hs + 3)
		}

		key := fmt.Sprintf("A%d", house)
		switch house {
		case 1:
			key = "AL"
		case 12:
			key = "UL"
		}
		out = append(out, Arudha{House: house, Key: key, Sign: pada, SignName: domain.SignName(pada)})
	}
	return out
}

// Aspects returns the signs aspected by sign. Movable signs aspect the
// fixed signs except the one next to them, fixed signs aspect the movable
// signs except the one before them, and dual signs aspect each other.
func Aspects(sign int) []int {
	sign = domain.NormalizeSign(sign)
	var target domain.Modality
	var skip int
	switch domain.ModalityOf(sign) {
	case domain.Movable:
		target, skip = domain.Fixed, domain.NormalizeSign(sign+1)
	case domain.Fixed:
		target, skip = domain.Movable, domain.NormalizeSign(sign-1)
	default:
		target, skip = domain.Dual, sign
	}
	var out []int
	for s := 1; s <= domain.SignCount; s++ {
		if s != skip && domain.ModalityOf(s) == target {
			out = append(out, s)
		}
	}
	return out
}

// Connection classifies the link between two signs: "conjunction",
// "aspect" or empty when unrelated.
func Connection(a, b int) string {
	a, b = domain.NormalizeSign(a), domain.NormalizeSign(b)
	if a == b {
		return "conjunction"
	}
	for _, s := range Aspects(a) {
		if s == b {
			return "aspect"
		}
	}
	return ""
}

// Yoga is a raja yoga formed by two connected significators.
type Yoga struct {
	Name       string   `json:"name" yaml:"name"`
	Codes      []string `json:"codes" yaml:"codes"`
	Planets    []string `json:"planets" yaml:"planets"`
	Connection string   `json:"connection" yaml:"connection"`
}

// fifthLord marks the lord of the 5th from the ascendant in a pair.
const fifthLord = "5L"

var yogaPairs = [][2]string{
	{"AK", "AmK"},
	{"AK", "PK"},
	{"AK", "DK"},
	{"AmK", "PK"},
	{"AmK", "DK"},
	{"PK", "DK"},
	{"AK", fifthLord},
	{"AmK", fifthLord},
}

// RajaYogas finds pairs of karakas, or a karaka and the 5th lord, that
// share a sign or aspect each other by sign.
func RajaYogas(karakas []Karaka, signs map[string]int, ascSign int, rulers Rulers) []Yoga {
	byCode := make(map[string]string, len(karakas)+1)
	for _, k := range karakas {
		byCode[k.Code] = k.Planet
	}
	byCode[fifthLord] = rulers.Ruler(ascSign + 4)

	var out []Yoga
	for _, pair := range yogaPairs {
		p1, p2 := byCode[pair[0]], byCode[pair[1]]
		if p1 == "" || p2 == "" || p1 == p2 {
			continue
		}
		s1, ok1 := signs[p1]
		s2, ok2 := signs[p2]
		if !ok1 || !ok2 {
			continue
		}
		if how := Connection(s1, s2); how != "" {
			out = append(out, Yoga{
				Name:       fmt.Sprintf("Jaimini Raja (%s-%s)", pair[0], pair[1]),
				Codes:      []string{pair[0], pair[1]},
				Planets:    []string{p1, p2},
				Connection: how,
			})
		}
	}
	return out
}

// Indicators bundles every Jaimini indicator of a chart.
type Indicators struct {
	Karakas []Karaka `json:"karakas" yaml:"karakas"`
	Arudhas []Arudha `json:"arudhas" yaml:"arudhas"`
	Yogas   []Yoga   `json:"yogas,omitempty" yaml:"yogas,omitempty"`
}

// Compute derives the seven-karaka indicators of a chart.
func Compute(ascendant float64, bodies map[string]*domain.CelestialBodyPosition, rulers Rulers) Indicators {
	asc := domain.SignOf(ascendant)
	signs := make(map[string]int, len(bodies))
	for name, b := range bodies {
		if domain.IsClassical(name) {
			signs[name] = b.Sign
		}
	}
	karakas := Karakas(bodies, false)
	return Indicators{
		Karakas: karakas,
		Arudhas: Arudhas(asc, signs, rulers),
		Yogas:   RajaYogas(karakas, signs, asc, rulers),
	}
}

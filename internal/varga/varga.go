// Package varga maps a sidereal longitude to its sign in each divisional chart.
//
// Every division splits a 30° sign into equal arcs, except D30 which is
// table-driven. The arc index is floor(degree/width), so a degree that lies
// exactly on a boundary belongs to the higher arc.
package varga

import (
	"errors"
	"fmt"
	"math"

	"jyotish-lab/internal/domain"
)

// ErrUnknownDivision is returned for a division code that has no rule.
var ErrUnknownDivision = errors.New("unknown divisional chart")

// Code identifies a divisional chart.
type Code string

const (
	D1  Code = "D1"
	D2  Code = "D2"  // Parashara hora: Sun/Moon halves mapped to Leo/Cancer
	D2P Code = "D2P" // parivritti hora: cyclic halves, wealth-oriented reading
	D3  Code = "D3"
	D4  Code = "D4"
	D7  Code = "D7"
	D9  Code = "D9"
	D10 Code = "D10"
	D12 Code = "D12"
	D16 Code = "D16"
	D20 Code = "D20"
	D24 Code = "D24"
	D27 Code = "D27"
	D30 Code = "D30"
	D40 Code = "D40"
	D45 Code = "D45"
	D60 Code = "D60"
)

// Standard lists the sixteen classical divisions in ascending order.
var Standard = []Code{D1, D2, D3, D4, D7, D9, D10, D12, D16, D20, D24, D27, D30, D40, D45, D60}

// SaptaVarga lists the seven divisions used by the strength engine.
var SaptaVarga = []Code{D1, D2, D3, D7, D9, D12, D30}

type rule struct {
	parts int
	// start returns the destination sign of arc 0 for a given source sign;
	// arc k lands k signs further.
	start func(sign int) int
	// direct overrides the linear rule entirely.
	direct func(sign, arc int) int
	// byDegree is used for divisions with unequal arcs.
	byDegree func(sign int, deg float64) int
}

var rules = map[Code]rule{
	D1: {parts: 1, start: func(sign int) int { return sign }},
	D2: {parts: 2, direct: func(sign, arc int) int {
		sunHalf := (sign%2 == 1) == (arc == 0)
		if sunHalf {
			return 5
		}
		return 4
	}},
	D2P: {parts: 2, direct: func(sign, arc int) int { return (sign-1)*2 + arc + 1 }},
	D3: {parts: 3, direct: func(sign, arc int) int { return sign + arc*4 }},
	D4: {parts: 4, direct: func(sign, arc int) int { return sign + arc*3 }},
	D7: {parts: 7, start: func(sign int) int {
		if sign%2 == 1 {
			return sign
		}
		return sign + 6
	}},
	D9: {parts: 9, start: func(sign int) int {
		// fire, earth, air, water triplicities start from Aries, Capricorn, Libra, Cancer
		return [4]int{4, 1, 10, 7}[sign%4]
	}},
	D10: {parts: 10, start: func(sign int) int {
		if sign%2 == 1 {
			return sign
		}
		return sign + 8
	}},
	D12: {parts: 12, start: func(sign int) int { return sign }},
	D16: {parts: 16, start: byModality(1, 5, 9)},
	D20: {parts: 20, start: byModality(1, 9, 5)},
	D24: {parts: 24, start: func(sign int) int {
		if sign%2 == 1 {
			return 5
		}
		return 4
	}},
	D27: {parts: 27, start: func(sign int) int {
		return [4]int{10, 1, 4, 7}[sign%4]
	}},
	D30: {byDegree: trimsamsa},
	D40: {parts: 40, start: func(sign int) int {
		if sign%2 == 1 {
			return 1
		}
		return 7
	}},
	D45: {parts: 45, start: byModality(1, 5, 9)},
	D60: {parts: 60, start: func(sign int) int { return sign }},
}

func byModality(movable, fixed, dual int) func(int) int {
	return func(sign int) int {
		switch domain.ModalityOf(sign) {
		case domain.Movable:
			return movable
		case domain.Fixed:
			return fixed
		default:
			return dual
		}
	}
}

type trimsamsaArc struct {
	upTo float64 // exclusive upper bound in degrees
	sign int
}

var (
	oddTrimsamsa = []trimsamsaArc{
		{5, 1},   // Mars
		{10, 11}, // Saturn
		{18, 9},  // Jupiter
		{25, 3},  // Mercury
		{30, 7},  // Venus
	}
	evenTrimsamsa = []trimsamsaArc{
		{5, 2},   // Venus
		{12, 6},  // Mercury
		{20, 12}, // Jupiter
		{25, 10}, // Saturn
		{30, 8},  // Mars
	}
)

func trimsamsa(sign int, deg float64) int {
	table := evenTrimsamsa
	if sign%2 == 1 {
		table = oddTrimsamsa
	}
	for _, a := range table {
		if deg < a.upTo {
			return a.sign
		}
	}
	return table[len(table)-1].sign
}

// Compute returns the 1-based sign of longitude in division code.
func Compute(longitude float64, code Code) (int, error) {
	r, ok := rules[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownDivision, code)
	}
	lon := domain.NormalizeLongitude(longitude)
	sign := domain.SignOf(lon)
	deg := domain.DegreeInSign(lon)

	if r.byDegree != nil {
		return r.byDegree(sign, deg), nil
	}

	arc := ArcIndex(deg, r.parts)
	if r.direct != nil {
		return domain.NormalizeSign(r.direct(sign, arc)), nil
	}
	return domain.NormalizeSign(r.start(sign) + arc), nil
}

// MustCompute is Compute for codes known to be valid.
func MustCompute(longitude float64, code Code) int {
	s, err := Compute(longitude, code)
	if err != nil {
		panic(err)
	}
	return s
}

// ArcIndex returns floor(deg / (30/parts)), clamped to parts-1.
func ArcIndex(deg float64, parts int) int {
	width := domain.SignWidth / float64(parts)
	i := int(math.Floor(deg / width))
	if i >= parts {
		i = parts - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// ComputeAll returns the sign of longitude in every standard division.
func ComputeAll(longitude float64) map[Code]int {
	out := make(map[Code]int, len(Standard))
	for _, c := range Standard {
		out[c] = MustCompute(longitude, c)
	}
	return out
}

// Chart holds every body's divisional sign for a set of divisions,
// keyed by division code then body name.
type Chart map[Code]map[string]int

// BuildChart places each body (and the ascendant, under key "Ascendant")
// in the standard divisions.
func BuildChart(bodies map[string]*domain.CelestialBodyPosition, ascendant float64) Chart {
	chart := make(Chart, len(Standard))
	for _, c := range Standard {
		signs := make(map[string]int, len(bodies)+1)
		signs[AscendantKey] = MustCompute(ascendant, c)
		for name, b := range bodies {
			signs[name] = MustCompute(b.Longitude, c)
		}
		chart[c] = signs
	}
	return chart
}

// AscendantKey is the body key used for the ascendant in a Chart.
const AscendantKey = "Ascendant"

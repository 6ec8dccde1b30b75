// Package dasha generates hierarchical time-period trees.
//
// All instants are Julian Days. Durations are converted to days once, with
// a fixed year length per system, and then accumulated in that single
// continuous unit.
package dasha

import (
	"math"

	"jyotish-lab/internal/domain"
)

// Year lengths in days.
const (
	GregorianYearDays = 365.2425
	SiderealYearDays  = 365.256363
)

// DefaultMaxDepth is the number of nested levels generated below and
// including the major periods.
const DefaultMaxDepth = 3

// DefaultMaxPeriods bounds the total number of nodes in one tree.
const DefaultMaxPeriods = 10000

// Ruler is one lord of a nakshatra-based system and its span in years.
type Ruler struct {
	Name  string
	Years float64
}

// NakshatraSystem parameterizes a Moon-nakshatra based system.
type NakshatraSystem struct {
	Name       domain.DashaSystem
	Rulers     []Ruler
	CycleYears float64
	// StartIndex maps the 0-based birth nakshatra to the index of the
	// first ruler.
	StartIndex func(nak0 int) int
	YearDays   float64
	Cycles     int
	MaxDepth   int
	MaxPeriods int
}

// Vimshottari is the 120-year, nine-lord system.
func Vimshottari() NakshatraSystem {
	return NakshatraSystem{
		Name: domain.DashaVimshottari,
		Rulers: []Ruler{
			{domain.Ketu, 7},
			{domain.Venus, 20},
			{domain.Sun, 6},
			{domain.Moon, 10},
			{domain.Mars, 7},
			{domain.Rahu, 18},
			{domain.Jupiter, 16},
			{domain.Saturn, 19},
			{domain.Mercury, 17},
		},
		CycleYears: 120,
		StartIndex: func(nak0 int) int { return nak0 % 9 },
		YearDays:   GregorianYearDays,
		Cycles:     2,
		MaxDepth:   DefaultMaxDepth,
		MaxPeriods: DefaultMaxPeriods,
	}
}

// Yogini is the 36-year, eight-yogini system.
func Yogini() NakshatraSystem {
	return NakshatraSystem{
		Name: domain.DashaYogini,
		Rulers: []Ruler{
			{"Mangala", 1},
			{"Pingala", 2},
			{"Dhanya", 3},
			{"Bhramari", 4},
			{"Bhadrika", 5},
			{"Ulka", 6},
			{"Siddha", 7},
			{"Sankata", 8},
		},
		CycleYears: 36,
		StartIndex: func(nak0 int) int {
			r := (nak0 + 1 + 3) % 8
			if r == 0 {
				r = 8
			}
			return r - 1
		},
		YearDays:   GregorianYearDays,
		Cycles:     7,
		MaxDepth:   DefaultMaxDepth,
		MaxPeriods: DefaultMaxPeriods,
	}
}

// BirthBalance describes where the Moon sits in its nakshatra at birth.
type BirthBalance struct {
	Nakshatra       int     `json:"nakshatra" yaml:"nakshatra"` // 1-based
	RulerIndex      int     `json:"ruler_index" yaml:"ruler_index"`
	Ruler           string  `json:"ruler" yaml:"ruler"`
	ElapsedFraction float64 `json:"elapsed_fraction" yaml:"elapsed_fraction"`
	BalanceYears    float64 `json:"balance_years" yaml:"balance_years"`
}

// Balance returns the starting lord and the unexpired part of its period.
func Balance(sys NakshatraSystem, moonLongitude float64) BirthBalance {
	pos := domain.NormalizeLongitude(moonLongitude) / domain.NakshatraSpan
	nak0 := int(math.Floor(pos))
	if nak0 >= domain.NakshatraCount {
		nak0 = domain.NakshatraCount - 1
	}
	elapsed := pos - float64(nak0)
	idx := sys.StartIndex(nak0)
	r := sys.Rulers[idx]
	return BirthBalance{
		Nakshatra:       nak0 + 1,
		RulerIndex:      idx,
		Ruler:           r.Name,
		ElapsedFraction: elapsed,
		BalanceYears:    (1 - elapsed) * r.Years,
	}
}

type generator struct {
	sys     NakshatraSystem
	birth   float64
	emitted int
}

func (g *generator) full() bool {
	return g.sys.MaxPeriods > 0 && g.emitted >= g.sys.MaxPeriods
}

// Generate builds the period tree for a Moon longitude and birth instant.
// Only periods ending after birth are emitted; the first major period's
// start is clamped to birth. Once MaxPeriods is reached, periods that could
// not be fully subdivided are left without children.
func Generate(sys NakshatraSystem, moonLongitude, birthJD float64) []*domain.DashaPeriod {
	if len(sys.Rulers) == 0 || sys.CycleYears <= 0 {
		return nil
	}
	bal := Balance(sys, moonLongitude)
	g := &generator{sys: sys, birth: birthJD}

	first := sys.Rulers[bal.RulerIndex]
	t := birthJD - bal.ElapsedFraction*first.Years*sys.YearDays

	n := len(sys.Rulers)
	var out []*domain.DashaPeriod
	for k := 0; k < sys.Cycles*n && !g.full(); k++ {
		idx := (bal.RulerIndex + k) % n
		r := sys.Rulers[idx]
		end := t + r.Years*sys.YearDays
		if end > birthJD {
			p := g.period(r, 1, t, end)
			g.subdivide(p, idx)
			out = append(out, p)
		}
		t = end
	}
	return out
}

func (g *generator) period(r Ruler, level int, nominalStart, end float64) *domain.DashaPeriod {
	g.emitted++
	return &domain.DashaPeriod{
		System:        g.sys.Name,
		Ruler:         r.Name,
		Level:         level,
		Start:         math.Max(nominalStart, g.birth),
		End:           end,
		NominalStart:  nominalStart,
		DurationYears: (end - nominalStart) / g.sys.YearDays,
	}
}

// subdivide fills parent.Children with its complete sequence of
// sub-periods. When the period budget runs out part way, every child
// emitted for this parent is discarded and parent stays a leaf, so a node's
// children always partition it.
func (g *generator) subdivide(parent *domain.DashaPeriod, parentIdx int) {
	level := parent.Level + 1
	if level > g.sys.MaxDepth {
		return
	}
	mark := g.emitted
	n := len(g.sys.Rulers)
	span := parent.End - parent.NominalStart
	t := parent.NominalStart
	var children []*domain.DashaPeriod
	for j := 0; j < n; j++ {
		idx := (parentIdx + j) % n
		r := g.sys.Rulers[idx]
		end := t + span*r.Years/g.sys.CycleYears
		if j == n-1 {
			end = parent.End
		}
		if end > g.birth {
			if g.full() {
				g.emitted = mark
				return
			}
			c := g.period(r, level, t, end)
			g.subdivide(c, idx)
			children = append(children, c)
		}
		t = end
	}
	parent.Children = children
}

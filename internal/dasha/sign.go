package dasha

import (
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/maitri"
)

// Placement is where a body sits for sign-based calculations.
type Placement struct {
	Sign   int
	Degree float64
}

// Placements maps body name to its sign placement.
type Placements map[string]Placement

// PlacementsFrom extracts sign placements of the classical planets and nodes.
func PlacementsFrom(bodies map[string]*domain.CelestialBodyPosition) Placements {
	pl := make(Placements)
	for name, b := range bodies {
		if domain.IsClassical(name) || domain.IsNode(name) {
			pl[name] = Placement{Sign: b.Sign, Degree: b.Degree}
		}
	}
	return pl
}

// occupants counts bodies in sign; nodes are counted only when withNodes is set.
func (pl Placements) occupants(sign int, withNodes bool) int {
	n := 0
	for name, p := range pl {
		if p.Sign != sign {
			continue
		}
		if !withNodes && domain.IsNode(name) {
			continue
		}
		n++
	}
	return n
}

// coLords are the secondary rulers of the two dual-lord signs.
var coLords = map[int]string{
	8:  domain.Ketu, // Scorpio: Mars and Ketu
	11: domain.Rahu, // Aquarius: Saturn and Rahu
}

// IsReverseSign reports whether counting from sign runs backward through
// the zodiac: Cancer, Leo, Virgo, Capricorn, Aquarius and Pisces.
func IsReverseSign(sign int) bool {
	switch domain.NormalizeSign(sign) {
	case 4, 5, 6, 10, 11, 12:
		return true
	}
	return false
}

// StrongerLord decides between the two lords of a dual-lord sign.
func StrongerLord(sign int, a, b string, pl Placements) string {
	pa, okA := pl[a]
	pb, okB := pl[b]
	switch {
	case okA && !okB:
		return a
	case okB && !okA:
		return b
	case !okA && !okB:
		return a
	}

	// A lord sitting in the sign itself yields to the other.
	inA, inB := pa.Sign == sign, pb.Sign == sign
	if inA && !inB {
		return b
	}
	if inB && !inA {
		return a
	}

	ca := pl.occupants(pa.Sign, true) - 1
	cb := pl.occupants(pb.Sign, true) - 1
	if ca != cb {
		if ca > cb {
			return a
		}
		return b
	}
	if pb.Degree > pa.Degree {
		return b
	}
	return a
}

// LordOf resolves the effective lord of a sign, applying the tie-break for
// dual-lord signs.
func LordOf(rel *maitri.Engine, sign int, pl Placements) string {
	lord := rel.Ruler(sign)
	if co, ok := coLords[domain.NormalizeSign(sign)]; ok {
		return StrongerLord(domain.NormalizeSign(sign), lord, co, pl)
	}
	return lord
}

// SignDuration counts from sign to its lord's sign, backward for reverse
// signs, and subtracts one. Zero becomes twelve.
func SignDuration(rel *maitri.Engine, sign int, pl Placements) int {
	lord := LordOf(rel, sign, pl)
	lp, ok := pl[lord]
	if !ok {
		return 12
	}
	var d int
	if IsReverseSign(sign) {
		d = domain.SignDistance(lp.Sign, sign)
	} else {
		d = domain.SignDistance(sign, lp.Sign)
	}
	if d == 0 {
		return 12
	}
	return d
}

// StrongerSign returns whichever of a and b holds more planets, nodes
// excluded. Ties go to a.
func StrongerSign(a, b int, pl Placements) int {
	if pl.occupants(b, false) > pl.occupants(a, false) {
		return b
	}
	return a
}

type signSequence struct {
	system domain.DashaSystem
	start  int
	dir    int
	order  []int // offsets from start
}

var (
	regularOrder = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	fixedOrder   = []int{0, 5, 10, 3, 8, 1, 6, 11, 4, 9, 2, 7}
	dualOrder    = []int{0, 3, 6, 9, 1, 4, 7, 10, 2, 5, 8, 11}
)

// Chara generates the sign-based period tree starting from the ascendant.
// The direction is reversed when the ninth sign from the ascendant is a
// reverse sign.
func Chara(rel *maitri.Engine, ascSign int, pl Placements, birthJD float64) []*domain.DashaPeriod {
	dir := 1
	if IsReverseSign(ascSign + 8) {
		dir = -1
	}
	return generateSigns(rel, signSequence{
		system: domain.DashaChara,
		start:  domain.NormalizeSign(ascSign),
		dir:    dir,
		order:  regularOrder,
	}, pl, birthJD)
}

// Narayana generates the sign-based period tree starting from the stronger
// of the ascendant and the seventh sign. Movable starts progress sign by
// sign, fixed starts by sixth signs and dual starts by angles; even starts
// run backward.
func Narayana(rel *maitri.Engine, ascSign int, pl Placements, birthJD float64) []*domain.DashaPeriod {
	start := StrongerSign(domain.NormalizeSign(ascSign), domain.NormalizeSign(ascSign+6), pl)
	dir := 1
	if !domain.IsOddSign(start) {
		dir = -1
	}
	order := regularOrder
	switch domain.ModalityOf(start) {
	case domain.Fixed:
		order = fixedOrder
	case domain.Dual:
		order = dualOrder
	}
	return generateSigns(rel, signSequence{
		system: domain.DashaNarayana,
		start:  start,
		dir:    dir,
		order:  order,
	}, pl, birthJD)
}

func generateSigns(rel *maitri.Engine, seq signSequence, pl Placements, birthJD float64) []*domain.DashaPeriod {
	durations := make(map[int]int, domain.SignCount)
	signs := make([]int, 0, domain.SignCount)
	for _, off := range seq.order {
		s := domain.NormalizeSign(seq.start + seq.dir*off)
		signs = append(signs, s)
		durations[s] = SignDuration(rel, s, pl)
	}

	var out []*domain.DashaPeriod
	t := birthJD
	emit := func(sign int, years float64) {
		end := t + years*SiderealYearDays
		p := &domain.DashaPeriod{
			System:        seq.system,
			Ruler:         domain.SignName(sign),
			Sign:          sign,
			Level:         1,
			Start:         t,
			End:           end,
			NominalStart:  t,
			DurationYears: years,
		}
		p.Children = signChildren(seq, p)
		out = append(out, p)
		t = end
	}

	for _, s := range signs {
		emit(s, float64(durations[s]))
	}
	// Second cycle: each sign gets the remainder of twelve years.
	for _, s := range signs {
		if rest := 12 - durations[s]; rest > 0 {
			emit(s, float64(rest))
		}
	}
	return out
}

// signChildren splits a major period into twelve equal sub-periods starting
// from the sign after it, in the same direction.
func signChildren(seq signSequence, parent *domain.DashaPeriod) []*domain.DashaPeriod {
	span := (parent.End - parent.Start) / domain.SignCount
	children := make([]*domain.DashaPeriod, 0, domain.SignCount)
	t := parent.Start
	for j := 1; j <= domain.SignCount; j++ {
		s := domain.NormalizeSign(parent.Sign + seq.dir*j)
		end := t + span
		if j == domain.SignCount {
			end = parent.End
		}
		children = append(children, &domain.DashaPeriod{
			System:        seq.system,
			Ruler:         domain.SignName(s),
			Sign:          s,
			Level:         2,
			Start:         t,
			End:           end,
			NominalStart:  t,
			DurationYears: parent.DurationYears / domain.SignCount,
		})
		t = end
	}
	return children
}

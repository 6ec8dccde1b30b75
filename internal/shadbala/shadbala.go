// Package shadbala computes the six-fold planetary strength.
//
// All components are in virupas; 60 virupas make one rupa.
package shadbala

import (
	"math"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/maitri"
	"jyotish-lab/internal/varga"
)

const virupasPerRupa = 60.0

// Input is everything the engine needs for one chart.
type Input struct {
	Bodies    map[string]*domain.CelestialBodyPosition
	Ascendant float64
	JD        float64
	Latitude  float64
	Longitude float64
	// Sunrise and Sunset bracket the birth day. Zero values mean the
	// rise/set computation was degenerate.
	Sunrise float64
	Sunset  float64
}

// Engine computes strength reports. It holds no mutable state.
type Engine struct {
	tables Tables
	cal    domain.Calibration
	rel    *maitri.Engine
}

// New creates an engine.
func New(tables Tables, cal domain.Calibration, rel *maitri.Engine) *Engine {
	if rel == nil {
		rel = maitri.NewDefault()
	}
	return &Engine{tables: tables, cal: cal, rel: rel}
}

// Calculate returns a report per classical planet present in the input.
// Absent planets are omitted.
func (e *Engine) Calculate(in Input) map[string]domain.StrengthReport {
	out := make(map[string]domain.StrengthReport)
	day := e.isDayBirth(in)

	for _, name := range domain.ClassicalPlanets {
		body, ok := in.Bodies[name]
		if !ok {
			continue
		}

		pos := e.positional(name, body)
		tmp := e.temporal(name, in, day)

		comp := domain.StrengthComponents{
			Positional:  pos.Exaltation + pos.Saptavarga + pos.OjaYugma + pos.Kendra,
			Directional: e.directional(name, body, in.Ascendant),
			Temporal:    tmp.DayNight + tmp.Paksha + tmp.Ayana + tmp.Baseline,
			Motional:    e.motional(name, body),
			Natural:     e.tables.NaturalStrength[name],
			Aspectual:   e.aspectual(name, body, in.Bodies),
		}

		total := comp.Sum()
		rupas := total / virupasPerRupa
		required := e.tables.Required[name]
		ratio := 0.0
		if required > 0 {
			ratio = rupas / required
		}

		out[name] = domain.StrengthReport{
			Planet:     name,
			Components: comp,
			Positional: pos,
			Temporal:   tmp,
			Total:      total,
			Rupas:      rupas,
			Required:   required,
			Ratio:      ratio,
			IsStrong:   rupas >= required,
		}
	}
	return out
}

// Exaltation is the linear falloff from the exaltation point: 60 at the
// point itself, 0 at the opposite point.
func (e *Engine) Exaltation(planet string, longitude float64) float64 {
	point, ok := e.tables.ExaltationPoints[planet]
	if !ok {
		return 0
	}
	return (180 - domain.ArcDistance(longitude, point)) / 3
}

func (e *Engine) positional(name string, body *domain.CelestialBodyPosition) domain.PositionalBreakdown {
	var pb domain.PositionalBreakdown
	pb.Exaltation = e.Exaltation(name, body.Longitude)

	for _, code := range varga.SaptaVarga {
		sign := varga.MustCompute(body.Longitude, code)
		pb.Saptavarga += saptavargaScore[e.rel.Compound(name, sign, body.Sign)]
	}

	d9 := varga.MustCompute(body.Longitude, varga.D9)
	odd := oddSignPlanets[name]
	for _, sign := range []int{body.Sign, d9} {
		if domain.IsOddSign(sign) == odd {
			pb.OjaYugma += 15
		}
	}

	switch body.House {
	case 1, 4, 7, 10:
		pb.Kendra = 60
	case 2, 5, 8, 11:
		pb.Kendra = 30
	default:
		pb.Kendra = 15
	}
	return pb
}

func (e *Engine) directional(name string, body *domain.CelestialBodyPosition, asc float64) float64 {
	offset, ok := directionOffset[name]
	if !ok {
		return 0
	}
	target := domain.NormalizeLongitude(asc + offset)
	return (180 - domain.ArcDistance(body.Longitude, target)) / 3
}

func (e *Engine) isDayBirth(in Input) bool {
	if in.Sunrise > 0 && in.Sunset > in.Sunrise {
		return in.JD >= in.Sunrise && in.JD < in.Sunset
	}
	// Degenerate rise/set: the Sun above the horizon sits in houses 7..12.
	if sun, ok := in.Bodies[domain.Sun]; ok {
		return sun.House >= 7
	}
	return true
}

func (e *Engine) temporal(name string, in Input, day bool) domain.TemporalBreakdown {
	var tb domain.TemporalBreakdown

	switch {
	case name == domain.Mercury:
		tb.DayNight = 60
	case dayPlanets[name] == day:
		tb.DayNight = 60
	}

	sun, okSun := in.Bodies[domain.Sun]
	moon, okMoon := in.Bodies[domain.Moon]
	if okSun && okMoon {
		angle := domain.NormalizeLongitude(moon.Longitude - sun.Longitude)
		pts := angle / 3
		if angle > 180 {
			pts = (360 - angle) / 3
		}
		if benefics[name] {
			tb.Paksha = pts
		} else {
			tb.Paksha = 60 - pts
		}
	}

	if e.cal.AyanaScale > 0 {
		tb.Ayana = e.cal.AyanaScale * ayana(name, in.Bodies[name].Declination)
	}
	tb.Baseline = e.cal.KaalaBaseline
	return tb
}

const maxDeclination = 24.0

func ayana(name string, decl float64) float64 {
	var v float64
	switch name {
	case domain.Sun, domain.Mars, domain.Jupiter, domain.Venus:
		v = (decl + maxDeclination) / (2 * maxDeclination) * 60
	case domain.Moon, domain.Saturn:
		v = (maxDeclination - decl) / (2 * maxDeclination) * 60
	case domain.Mercury:
		v = 30 + math.Abs(decl)/maxDeclination*30
	}
	return math.Max(0, math.Min(60, v))
}

func (e *Engine) motional(name string, body *domain.CelestialBodyPosition) float64 {
	if name == domain.Sun || name == domain.Moon {
		return 30
	}
	if body.IsRetrograde() {
		return 60
	}
	mean := e.tables.MeanMotion[name]
	if mean <= 0 {
		return 30
	}
	switch ratio := body.Speed / mean; {
	case ratio < 0.25:
		return 15
	case ratio > 1:
		return 45
	default:
		return 30
	}
}

// Drishti is the aspect strength (0..60) cast by viewer on a point angle
// degrees ahead of it.
func Drishti(viewer string, angle float64) float64 {
	a := domain.NormalizeLongitude(angle)
	for _, w := range specialAspects[viewer] {
		if a >= w.from && a <= w.to {
			return 60
		}
	}
	switch {
	case a < 30:
		return 0
	case a < 60:
		return (a - 30) / 2
	case a < 90:
		return a - 60 + 15
	case a < 120:
		return (120-a)/2 + 30
	case a < 150:
		return 150 - a
	case a < 180:
		return (a - 150) * 2
	case a < 300:
		return (300 - a) / 2
	default:
		return 0
	}
}

func (e *Engine) aspectual(name string, target *domain.CelestialBodyPosition, bodies map[string]*domain.CelestialBodyPosition) float64 {
	var total float64
	for _, viewer := range domain.ClassicalPlanets {
		if viewer == name {
			continue
		}
		vb, ok := bodies[viewer]
		if !ok {
			continue
		}
		impact := Drishti(viewer, target.Longitude-vb.Longitude) / 4
		if benefics[viewer] {
			total += impact
		} else {
			total -= impact
		}
	}
	return total
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"jyotish-lab/internal/ashtakavarga"
	"jyotish-lab/internal/dasha"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/jaimini"
	"jyotish-lab/internal/maitri"
	"jyotish-lab/internal/panchanga"
	"jyotish-lab/internal/shadbala"
	"jyotish-lab/internal/transit"
	"jyotish-lab/internal/upagraha"
	"jyotish-lab/internal/varga"
	"jyotish-lab/internal/yoga"
)

// Stage names.
const (
	StageAstronomy    = "astronomy"
	StageShadowPoints = "shadow_points"
	StageVargas       = "vargas"
	StageShadbala     = "shadbala"
	StageDashas       = "dashas"
	StagePanchanga    = "panchanga"
	StageAshtakavarga = "ashtakavarga"
	StageYogas        = "yogas"
	StageJaimini      = "jaimini"
	StageDoshas       = "doshas"
	StageTransits     = "transits"
)

const reasonNoAstronomy = "astronomy not computed"

// AstronomyError is returned by a run whose astronomy stage could not
// produce positions or houses.
type AstronomyError struct {
	Body string
	Err  error
}

func (e *AstronomyError) Error() string {
	return fmt.Sprintf("astronomy failed for %s: %v", e.Body, e.Err)
}

func (e *AstronomyError) Unwrap() error {
	return e.Err
}

// AstronomyStage fills the ascendant, cusps, rise/set and body positions.
type AstronomyStage struct {
	provider ephemeris.Provider
}

func (s *AstronomyStage) Name() string { return StageAstronomy }

func (s *AstronomyStage) Execute(ctx context.Context, cc *ChartContext) StageResult {
	in, cfg := cc.Input, cc.Config

	houses, err := s.provider.Houses(ctx, cc.JD, in.Latitude, in.Longitude, cfg.HouseSystem, cfg.Ayanamsa)
	if err != nil {
		return Fatal(&AstronomyError{Body: "houses", Err: err})
	}
	cc.Ascendant = domain.NormalizeLongitude(houses.Ascendant)
	cc.Cusps = houses.Cusps

	var omitted []string
	for _, b := range domain.EphemerisBodies {
		pos, err := s.provider.Position(ctx, cc.JD, b.ID, cfg.Ayanamsa)
		if errors.Is(err, ephemeris.ErrBodyUnavailable) {
			omitted = append(omitted, b.Name)
			continue
		}
		if err != nil {
			return Fatal(&AstronomyError{Body: b.Name, Err: err})
		}
		cc.Bodies[b.Name] = domain.NewBodyPosition(b.ID, b.Name, pos.Longitude, pos.Speed, pos.Declination, cc.Ascendant)
	}

	// Rise/set failures only degrade day/night dependent components.
	if rs, err := s.provider.RiseSet(ctx, cc.JD, in.Latitude, in.Longitude); err == nil && rs.Valid() {
		cc.RiseSet = rs
	}
	cc.astronomy = true

	res := OK()
	if len(omitted) > 0 {
		res.Reason = "omitted: " + strings.Join(omitted, ", ")
	}
	return res
}

// ShadowPointStage injects Ketu and, when enabled, the derived shadow points.
type ShadowPointStage struct {
	provider ephemeris.Provider
	extras   bool
}

func (s *ShadowPointStage) Name() string { return StageShadowPoints }

func (s *ShadowPointStage) Execute(ctx context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}

	if rahu, ok := cc.Bodies[domain.Rahu]; ok {
		cc.Bodies[domain.Ketu] = domain.NewBodyPosition(domain.BodyIDKetu, domain.Ketu,
			upagraha.KetuLongitude(rahu.Longitude), rahu.Speed, -rahu.Declination, cc.Ascendant)
	}
	if !s.extras {
		return OK()
	}

	var names []string
	add := func(name string, lon float64) {
		b := domain.NewBodyPosition(domain.SyntheticBodyID, name, lon, 0, 0, cc.Ascendant)
		b.Synthetic = true
		cc.Bodies[name] = b
		names = append(names, name)
	}

	if sun, ok := cc.Bodies[domain.Sun]; ok {
		for name, lon := range upagraha.SunBased(sun.Longitude) {
			add(name, lon)
		}
	}
	moon, okMoon := cc.Bodies[domain.Moon]
	rahu, okRahu := cc.Bodies[domain.Rahu]
	if okMoon && okRahu {
		add(upagraha.BhriguBindu, upagraha.BhriguBinduLongitude(moon.Longitude, rahu.Longitude))
	}

	var reason string
	if kv, ok := upagraha.KalavelaInstants(cc.JD, cc.RiseSet.Sunrise, cc.RiseSet.Sunset, cc.Input.UTCOffsetMinutes); ok {
		for _, p := range []struct {
			name string
			jd   float64
		}{{upagraha.Gulika, kv.Gulika}, {upagraha.Mandi, kv.Mandi}} {
			h, err := s.provider.Houses(ctx, p.jd, cc.Input.Latitude, cc.Input.Longitude, cc.Config.HouseSystem, cc.Config.Ayanamsa)
			if err != nil {
				reason = fmt.Sprintf("%s: %v", p.name, err)
				continue
			}
			add(p.name, h.Ascendant)
		}
	} else {
		reason = "sunrise unavailable, Gulika and Mandi omitted"
	}

	sort.Strings(names)
	if err := cc.Set(KeyShadowPoints, names); err != nil {
		return Fail(err)
	}
	res := OK()
	res.Reason = reason
	return res
}

// VargaStage places every body in the standard divisional charts.
type VargaStage struct {
	rel *maitri.Engine
}

func (s *VargaStage) Name() string { return StageVargas }

func (s *VargaStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}
	if err := cc.Set(KeyVargas, varga.BuildChart(cc.Bodies, cc.Ascendant)); err != nil {
		return Fail(err)
	}
	if err := cc.Set(KeyRelations, s.rel.Matrix(cc.Bodies)); err != nil {
		return Fail(err)
	}
	return OK()
}

// ShadbalaStage computes strength reports. It depends on the divisional
// charts having been built.
type ShadbalaStage struct {
	engine *shadbala.Engine
}

func (s *ShadbalaStage) Name() string { return StageShadbala }

func (s *ShadbalaStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}
	if _, ok := cc.Vargas(); !ok {
		return Skip("divisional charts not computed")
	}
	reports := s.engine.Calculate(shadbala.Input{
		Bodies:    cc.Bodies,
		Ascendant: cc.Ascendant,
		JD:        cc.JD,
		Latitude:  cc.Input.Latitude,
		Longitude: cc.Input.Longitude,
		Sunrise:   cc.RiseSet.Sunrise,
		Sunset:    cc.RiseSet.Sunset,
	})
	if len(reports) == 0 {
		return Skip("no classical planets present")
	}
	if err := cc.Set(KeyShadbala, reports); err != nil {
		return Fail(err)
	}
	return OK()
}

// DashaStage builds period trees for each configured system.
type DashaStage struct {
	rel *maitri.Engine
}

func (s *DashaStage) Name() string { return StageDashas }

func nakshatraSystem(sys domain.DashaSystem) (dasha.NakshatraSystem, bool) {
	switch sys {
	case domain.DashaVimshottari:
		return dasha.Vimshottari(), true
	case domain.DashaYogini:
		return dasha.Yogini(), true
	}
	return dasha.NakshatraSystem{}, false
}

func (s *DashaStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}

	periods := make(map[domain.DashaSystem][]*domain.DashaPeriod)
	balances := make(map[domain.DashaSystem]dasha.BirthBalance)
	pl := dasha.PlacementsFrom(cc.Bodies)
	moon, hasMoon := cc.Bodies[domain.Moon]

	var missing []string
	for _, sys := range cc.Config.DashaSystems {
		var p []*domain.DashaPeriod
		switch sys {
		case domain.DashaChara:
			p = dasha.Chara(s.rel, cc.AscendantSign(), pl, cc.JD)
		case domain.DashaNarayana:
			p = dasha.Narayana(s.rel, cc.AscendantSign(), pl, cc.JD)
		default:
			ns, ok := nakshatraSystem(sys)
			if !ok || !hasMoon {
				missing = append(missing, string(sys))
				continue
			}
			p = dasha.Generate(ns, moon.Longitude, cc.JD)
			balances[sys] = dasha.Balance(ns, moon.Longitude)
		}
		if len(p) > 0 {
			periods[sys] = p
		}
	}

	if len(periods) == 0 {
		return Skip("no dasha system could be computed")
	}
	if err := cc.Set(KeyDashas, periods); err != nil {
		return Fail(err)
	}
	if len(balances) > 0 {
		if err := cc.Set(KeyDashaBalance, balances); err != nil {
			return Fail(err)
		}
	}
	res := OK()
	if len(missing) > 0 {
		res.Reason = "moon unavailable for: " + strings.Join(missing, ", ")
	}
	return res
}

// PanchangaStage computes the almanac of the birth moment.
type PanchangaStage struct{}

func (s *PanchangaStage) Name() string { return StagePanchanga }

func (s *PanchangaStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	sun, okSun := cc.Bodies[domain.Sun]
	moon, okMoon := cc.Bodies[domain.Moon]
	if !okSun || !okMoon {
		return Skip("sun and moon required")
	}
	p := panchanga.Compute(sun.Longitude, moon.Longitude, cc.JD, cc.RiseSet.Sunrise, cc.Input.UTCOffsetMinutes)
	if err := cc.Set(KeyPanchanga, p); err != nil {
		return Fail(err)
	}
	return OK()
}

// YogaStage detects planetary combinations.
type YogaStage struct {
	detector *yoga.Detector
}

func (s *YogaStage) Name() string { return StageYogas }

func (s *YogaStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}
	if err := cc.Set(KeyYogas, s.detector.Detect(cc.Ascendant, cc.Bodies)); err != nil {
		return Fail(err)
	}
	return OK()
}

// AshtakavargaStage scores the signs by the bindus of the seven planets
// and the ascendant.
type AshtakavargaStage struct {
	calc *ashtakavarga.Calculator
}

func (s *AshtakavargaStage) Name() string { return StageAshtakavarga }

func (s *AshtakavargaStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}
	res := s.calc.Compute(ashtakavarga.SignsFrom(cc.Ascendant, cc.Bodies))
	if err := cc.Set(KeyAshtakavarga, res); err != nil {
		return Fail(err)
	}
	out := OK()
	if len(res.Missing) > 0 {
		out.Reason = "missing contributors: " + strings.Join(res.Missing, ", ")
	}
	return out
}

// JaiminiStage derives chara karakas, arudha padas and karaka raja yogas.
type JaiminiStage struct {
	rel *maitri.Engine
}

func (s *JaiminiStage) Name() string { return StageJaimini }

func (s *JaiminiStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}
	ind := jaimini.Compute(cc.Ascendant, cc.Bodies, s.rel)
	if len(ind.Karakas) == 0 {
		return Skip("no classical planets present")
	}
	if err := cc.Set(KeyJaimini, ind); err != nil {
		return Fail(err)
	}
	return OK()
}

// DoshaStage checks Kuja dosha and kala sarpa.
type DoshaStage struct{}

func (s *DoshaStage) Name() string { return StageDoshas }

func (s *DoshaStage) Execute(_ context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}
	d := yoga.DetectDoshas(cc.Ascendant, cc.Bodies)
	if d.Manglik == nil && d.KalaSarpa == nil {
		return Skip("mars and rahu required")
	}
	if err := cc.Set(KeyDoshas, d); err != nil {
		return Fail(err)
	}
	return OK()
}

// TransitStage scans the sky over a window. Natal charts scan from the
// clock's current time; transit charts scan from the chart moment.
type TransitStage struct {
	provider  ephemeris.Provider
	clock     func() time.Time
	fromChart bool
}

func (s *TransitStage) Name() string { return StageTransits }

func (s *TransitStage) Execute(ctx context.Context, cc *ChartContext) StageResult {
	if !cc.HasAstronomy() {
		return Skip(reasonNoAstronomy)
	}
	start := cc.JD
	if !s.fromChart {
		start = domain.JulianDayFromTime(s.clock())
	}
	moonSign := 0
	if moon, ok := cc.Bodies[domain.Moon]; ok {
		moonSign = moon.Sign
	}

	fc, err := transit.NewScanner(s.provider, cc.Config.Ayanamsa).Scan(ctx, start, cc.Config.TransitDays, moonSign)
	if err != nil {
		return Fail(fmt.Errorf("scan transits: %w", err))
	}
	if err := cc.Set(KeyTransits, fc); err != nil {
		return Fail(err)
	}
	return OK()
}

package pipeline

import (
	"sort"

	"jyotish-lab/internal/ashtakavarga"
	"jyotish-lab/internal/dasha"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/jaimini"
	"jyotish-lab/internal/panchanga"
	"jyotish-lab/internal/transit"
	"jyotish-lab/internal/varga"
	"jyotish-lab/internal/yoga"
)

// HouseCusp is one cusp of the house table.
type HouseCusp struct {
	House     int     `json:"house" yaml:"house"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Sign      int     `json:"sign" yaml:"sign"`
	SignName  string  `json:"sign_name" yaml:"sign_name"`
}

// PlanetEntry is a body with its optional strength report.
type PlanetEntry struct {
	Position      domain.CelestialBodyPosition `json:"position" yaml:"position"`
	SignName      string                       `json:"sign_name" yaml:"sign_name"`
	NakshatraName string                       `json:"nakshatra_name" yaml:"nakshatra_name"`
	Retrograde    bool                         `json:"retrograde" yaml:"retrograde"`
	Strength      *domain.StrengthReport       `json:"strength,omitempty" yaml:"strength,omitempty"`
}

// ChainEntry is one level of the active period chain.
type ChainEntry struct {
	Level     int     `json:"level" yaml:"level"`
	Ruler     string  `json:"ruler" yaml:"ruler"`
	Sign      int     `json:"sign,omitempty" yaml:"sign,omitempty"`
	Start     float64 `json:"start" yaml:"start"`
	End       float64 `json:"end" yaml:"end"`
	StartDate string  `json:"start_date" yaml:"start_date"`
	EndDate   string  `json:"end_date" yaml:"end_date"`
}

// Report is the serializable view of a finished chart.
type Report struct {
	ChartID       string                                       `json:"chart_id,omitempty" yaml:"chart_id,omitempty"`
	Input         domain.BirthInput                            `json:"input" yaml:"input"`
	Config        domain.Configuration                         `json:"config" yaml:"config"`
	JD            float64                                      `json:"jd" yaml:"jd"`
	BirthUTC      string                                       `json:"birth_utc" yaml:"birth_utc"`
	Ascendant     float64                                      `json:"ascendant" yaml:"ascendant"`
	AscendantSign int                                          `json:"ascendant_sign" yaml:"ascendant_sign"`
	Houses        []HouseCusp                                  `json:"houses" yaml:"houses"`
	Planets       []PlanetEntry                                `json:"planets" yaml:"planets"`
	Vargas        varga.Chart                                  `json:"vargas,omitempty" yaml:"vargas,omitempty"`
	Dashas        map[domain.DashaSystem][]*domain.DashaPeriod `json:"dashas,omitempty" yaml:"dashas,omitempty"`
	Balances      map[domain.DashaSystem]dasha.BirthBalance    `json:"dasha_balances,omitempty" yaml:"dasha_balances,omitempty"`
	AsOf          float64                                      `json:"as_of" yaml:"as_of"`
	ActiveChains  map[domain.DashaSystem][]ChainEntry          `json:"active_chains,omitempty" yaml:"active_chains,omitempty"`
	Panchanga     *panchanga.Panchanga                         `json:"panchanga,omitempty" yaml:"panchanga,omitempty"`
	Ashtakavarga  *ashtakavarga.Result                         `json:"ashtakavarga,omitempty" yaml:"ashtakavarga,omitempty"`
	Yogas         []yoga.Yoga                                  `json:"yogas,omitempty" yaml:"yogas,omitempty"`
	Jaimini       *jaimini.Indicators                          `json:"jaimini,omitempty" yaml:"jaimini,omitempty"`
	Doshas        *yoga.Doshas                                 `json:"doshas,omitempty" yaml:"doshas,omitempty"`
	Transits      *transit.Forecast                            `json:"transits,omitempty" yaml:"transits,omitempty"`
	Stages        []StageResult                                `json:"stages,omitempty" yaml:"stages,omitempty"`
}

// planetOrder sorts classical planets first, then nodes, then shadow
// points by name.
func planetOrder(name string) int {
	for i, p := range domain.ClassicalPlanets {
		if p == name {
			return i
		}
	}
	switch name {
	case domain.Rahu:
		return len(domain.ClassicalPlanets)
	case domain.Ketu:
		return len(domain.ClassicalPlanets) + 1
	}
	return len(domain.ClassicalPlanets) + 2
}

// BuildReport assembles the report of cc. asOf (a Julian Day) selects the
// active period chains. Sections whose stage did not run are left empty.
func BuildReport(cc *ChartContext, summary *RunSummary, asOf float64) *Report {
	r := &Report{
		Input:         cc.Input,
		Config:        cc.Config,
		JD:            cc.JD,
		BirthUTC:      cc.Input.Instant().Format("2006-01-02T15:04:05Z"),
		Ascendant:     cc.Ascendant,
		AscendantSign: cc.AscendantSign(),
		AsOf:          asOf,
	}
	if summary != nil {
		r.Stages = summary.Stages
	}

	if cc.HasAstronomy() {
		for i, c := range cc.Cusps {
			sign := domain.SignOf(c)
			r.Houses = append(r.Houses, HouseCusp{House: i + 1, Longitude: c, Sign: sign, SignName: domain.SignName(sign)})
		}
	}

	strength, _ := cc.Strength()
	for name, b := range cc.Bodies {
		e := PlanetEntry{
			Position:      *b,
			SignName:      domain.SignName(b.Sign),
			NakshatraName: domain.NakshatraName(b.Nakshatra),
			Retrograde:    b.IsRetrograde(),
		}
		if s, ok := strength[name]; ok {
			e.Strength = &s
		}
		r.Planets = append(r.Planets, e)
	}
	sort.Slice(r.Planets, func(i, j int) bool {
		oi, oj := planetOrder(r.Planets[i].Position.Name), planetOrder(r.Planets[j].Position.Name)
		if oi != oj {
			return oi < oj
		}
		return r.Planets[i].Position.Name < r.Planets[j].Position.Name
	})

	if v, ok := cc.Vargas(); ok {
		r.Vargas = v
	}
	if d, ok := cc.Dashas(); ok {
		r.Dashas = d
		r.ActiveChains = make(map[domain.DashaSystem][]ChainEntry)
		for sys, periods := range d {
			var chain []ChainEntry
			for _, p := range dasha.ActiveChain(periods, asOf) {
				chain = append(chain, ChainEntry{
					Level:     p.Level,
					Ruler:     p.Ruler,
					Sign:      p.Sign,
					Start:     p.Start,
					End:       p.End,
					StartDate: domain.FormatJulianDay(p.Start),
					EndDate:   domain.FormatJulianDay(p.End),
				})
			}
			if len(chain) > 0 {
				r.ActiveChains[sys] = chain
			}
		}
	}
	if b, ok := cc.DashaBalances(); ok {
		r.Balances = b
	}
	if p, ok := cc.Panchanga(); ok {
		r.Panchanga = &p
	}
	if a, ok := cc.Ashtakavarga(); ok {
		r.Ashtakavarga = &a
	}
	if y, ok := cc.Yogas(); ok {
		r.Yogas = y
	}
	if j, ok := cc.Jaimini(); ok {
		r.Jaimini = &j
	}
	if d, ok := cc.Doshas(); ok {
		r.Doshas = &d
	}
	if t, ok := cc.Transits(); ok {
		r.Transits = t
	}
	return r
}

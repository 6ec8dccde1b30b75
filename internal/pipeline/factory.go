package pipeline

import (
	"time"

	"jyotish-lab/internal/ashtakavarga"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/maitri"
	"jyotish-lab/internal/shadbala"
	"jyotish-lab/internal/yoga"
)

// Dependencies are the collaborators shared by the stages of one build.
// Nil fields are replaced with defaults.
type Dependencies struct {
	Provider     ephemeris.Provider
	Relations    *maitri.Engine
	Strength     *shadbala.Engine
	Ashtakavarga *ashtakavarga.Calculator
	Clock        func() time.Time
}

func (d Dependencies) withDefaults(cfg domain.Configuration) Dependencies {
	if d.Relations == nil {
		d.Relations = maitri.NewDefault()
	}
	if d.Strength == nil {
		d.Strength = shadbala.New(shadbala.DefaultTables(), cfg.Calibration, d.Relations)
	}
	if d.Ashtakavarga == nil {
		d.Ashtakavarga = ashtakavarga.New(nil)
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// Build assembles the ordered stage list for a chart type. Astronomy and
// node injection always run; the rest follow the configuration toggles.
// Transit charts always scan from the chart moment and skip the natal-only
// analyses.
func Build(chartType domain.ChartType, cfg domain.Configuration, deps Dependencies) []Stage {
	deps = deps.withDefaults(cfg)

	stages := []Stage{
		&AstronomyStage{provider: deps.Provider},
		&ShadowPointStage{provider: deps.Provider, extras: cfg.Sections.ShadowPoints},
	}

	if chartType == domain.ChartTransit {
		if cfg.Sections.Dashas {
			stages = append(stages, &DashaStage{rel: deps.Relations})
		}
		return append(stages, &TransitStage{provider: deps.Provider, clock: deps.Clock, fromChart: true})
	}

	s := cfg.Sections
	if s.Vargas {
		stages = append(stages, &VargaStage{rel: deps.Relations})
	}
	if s.Shadbala {
		stages = append(stages, &ShadbalaStage{engine: deps.Strength})
	}
	if s.Ashtakavarga {
		stages = append(stages, &AshtakavargaStage{calc: deps.Ashtakavarga})
	}
	if s.Dashas {
		stages = append(stages, &DashaStage{rel: deps.Relations})
	}
	if s.Panchanga {
		stages = append(stages, &PanchangaStage{})
	}
	if s.Yogas {
		stages = append(stages, &YogaStage{detector: yoga.NewDetector(deps.Relations)})
	}
	if s.Jaimini {
		stages = append(stages, &JaiminiStage{rel: deps.Relations})
	}
	if s.Doshas {
		stages = append(stages, &DoshaStage{})
	}
	if s.Transits {
		stages = append(stages, &TransitStage{provider: deps.Provider, clock: deps.Clock})
	}
	return stages
}

// StageNames lists the names of stages in order.
func StageNames(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Name()
	}
	return out
}

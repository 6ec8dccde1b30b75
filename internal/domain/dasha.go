package domain

// DashaPeriod is one node of a time-period tree.
// Start and End are Julian Days; Start is clamped to the birth instant
// while NominalStart keeps the unclamped value used for sub-period arithmetic.
type DashaPeriod struct {
	System        DashaSystem    `json:"system" yaml:"system"`
	Ruler         string         `json:"ruler" yaml:"ruler"`
	Sign          int            `json:"sign,omitempty" yaml:"sign,omitempty"` // sign-based systems only
	Level         int            `json:"level" yaml:"level"`                   // 1 = major period
	Start         float64        `json:"start" yaml:"start"`
	End           float64        `json:"end" yaml:"end"`
	NominalStart  float64        `json:"-" yaml:"-"`
	DurationYears float64        `json:"duration_years" yaml:"duration_years"` // full nominal length
	Children      []*DashaPeriod `json:"children,omitempty" yaml:"children,omitempty"`
}

// Contains reports whether jd falls inside [Start, End).
func (p *DashaPeriod) Contains(jd float64) bool {
	return p.Start <= jd && jd < p.End
}

// DashaPeriodRecord is a flattened period used for persistence.
type DashaPeriodRecord struct {
	ChartID string
	System  DashaSystem
	Path    string // ruler chain joined with "/"
	Level   int
	Ruler   string
	Sign    int
	StartJD float64
	EndJD   float64
}

// FlattenDashaPeriods walks a period forest depth-first into records.
func FlattenDashaPeriods(chartID string, periods []*DashaPeriod) []*DashaPeriodRecord {
	var out []*DashaPeriodRecord
	var walk func(prefix string, ps []*DashaPeriod)
	walk = func(prefix string, ps []*DashaPeriod) {
		for _, p := range ps {
			path := p.Ruler
			if prefix != "" {
				path = prefix + "/" + p.Ruler
			}
			out = append(out, &DashaPeriodRecord{
				ChartID: chartID,
				System:  p.System,
				Path:    path,
				Level:   p.Level,
				Ruler:   p.Ruler,
				Sign:    p.Sign,
				StartJD: p.Start,
				EndJD:   p.End,
			})
			walk(path, p.Children)
		}
	}
	walk("", periods)
	return out
}

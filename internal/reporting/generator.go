package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// StoredSummary is a report assembled from persisted records.
type StoredSummary struct {
	GeneratedAt time.Time
	Chart       *domain.ChartRecord
	AsOf        float64
	Strength    []*domain.StrengthRecord
	// Active holds, per system, the stored periods containing AsOf.
	Active map[domain.DashaSystem][]*domain.DashaPeriodRecord
}

// Generator produces reports from stored data.
type Generator struct {
	chartStore    storage.ChartStore
	strengthStore storage.StrengthStore
	dashaStore    storage.DashaPeriodStore
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	chartStore storage.ChartStore,
	strengthStore storage.StrengthStore,
	dashaStore storage.DashaPeriodStore,
) *Generator {
	return &Generator{
		chartStore:    chartStore,
		strengthStore: strengthStore,
		dashaStore:    dashaStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads one chart and its stored analysis. asOf is a Julian Day;
// zero means the generator clock.
func (g *Generator) Generate(ctx context.Context, chartID string, asOf float64) (*StoredSummary, error) {
	chart, err := g.chartStore.GetByID(ctx, chartID)
	if err != nil {
		return nil, fmt.Errorf("load chart %s: %w", chartID, err)
	}

	generatedAt := g.now()
	if asOf == 0 {
		asOf = domain.JulianDayFromTime(generatedAt)
	}

	strength, err := g.strengthStore.GetByChartID(ctx, chartID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load strength: %w", err)
	}

	active := make(map[domain.DashaSystem][]*domain.DashaPeriodRecord)
	for _, sys := range []domain.DashaSystem{domain.DashaVimshottari, domain.DashaYogini, domain.DashaChara, domain.DashaNarayana} {
		periods, err := g.dashaStore.GetActive(ctx, chartID, sys, asOf)
		if err != nil {
			return nil, fmt.Errorf("load %s periods: %w", sys, err)
		}
		if len(periods) > 0 {
			active[sys] = periods
		}
	}

	return &StoredSummary{
		GeneratedAt: generatedAt,
		Chart:       chart,
		AsOf:        asOf,
		Strength:    strength,
		Active:      active,
	}, nil
}

// RenderSummaryMarkdown renders a stored summary as Markdown string.
func RenderSummaryMarkdown(s *StoredSummary) string {
	var sb strings.Builder

	c := s.Chart
	title := c.ChartID
	if c.Label != "" {
		title = c.Label
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Chart ID | %s |\n", c.ChartID))
	sb.WriteString(fmt.Sprintf("| Birth | %s (JD %.6f) |\n", domain.FormatJulianDay(c.BirthJD), c.BirthJD))
	sb.WriteString(fmt.Sprintf("| Location | %.4f, %.4f |\n", c.Latitude, c.Longitude))
	sb.WriteString(fmt.Sprintf("| Ayanamsa | %s |\n", c.Ayanamsa))
	sb.WriteString(fmt.Sprintf("| Houses | %s |\n", c.HouseSystem))
	sb.WriteString(fmt.Sprintf("| Ascendant | %s %s |\n", domain.SignName(domain.SignOf(c.Ascendant)), FormatDegrees(domain.DegreeInSign(c.Ascendant))))
	sb.WriteString(fmt.Sprintf("| Moon | %s %s |\n", domain.SignName(domain.SignOf(c.MoonLong)), FormatDegrees(domain.DegreeInSign(c.MoonLong))))
	sb.WriteString("\n")

	sb.WriteString("## Strength\n\n")
	if len(s.Strength) > 0 {
		sb.WriteString("| Planet | Rupas | Required | Ratio | Strong |\n")
		sb.WriteString("|--------|-------|----------|-------|--------|\n")
		for _, r := range s.Strength {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %t |\n", r.Planet, r.Rupas, r.Required, r.Ratio, r.IsStrong))
		}
	} else {
		sb.WriteString("No strength data stored.\n")
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## Active periods on %s\n\n", domain.FormatJulianDay(s.AsOf)))
	if len(s.Active) > 0 {
		sb.WriteString("| System | Chain | Ends |\n")
		sb.WriteString("|--------|-------|------|\n")
		for _, sys := range sortedSystems(s.Active) {
			periods := s.Active[sys]
			deepest := periods[len(periods)-1]
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", sys, deepest.Path, domain.FormatJulianDay(deepest.EndJD)))
		}
	} else {
		sb.WriteString("No stored periods cover this date.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

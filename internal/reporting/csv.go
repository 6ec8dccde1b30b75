package reporting

import (
	"fmt"
	"sort"
	"strings"

	"jyotish-lab/internal/domain"
)

// RenderDashaCSV renders every period of every system as a flat timeline,
// systems in name order and periods depth-first.
func RenderDashaCSV(dashas map[domain.DashaSystem][]*domain.DashaPeriod) string {
	var sb strings.Builder

	sb.WriteString("system,level,path,ruler,sign,start_jd,end_jd,start_date,end_date\n")

	systems := make([]domain.DashaSystem, 0, len(dashas))
	for sys := range dashas {
		systems = append(systems, sys)
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i] < systems[j] })

	for _, sys := range systems {
		for _, p := range domain.FlattenDashaPeriods("", dashas[sys]) {
			sb.WriteString(fmt.Sprintf("%s,%d,%s,%s,%d,%.6f,%.6f,%s,%s\n",
				sys,
				p.Level,
				p.Path,
				p.Ruler,
				p.Sign,
				p.StartJD,
				p.EndJD,
				domain.FormatJulianDay(p.StartJD),
				domain.FormatJulianDay(p.EndJD),
			))
		}
	}

	return sb.String()
}

// RenderStrengthCSV renders strength reports in the given planet order.
func RenderStrengthCSV(planets []string, reports map[string]domain.StrengthReport) string {
	var sb strings.Builder

	sb.WriteString("planet,positional,directional,temporal,motional,natural,aspectual,total,rupas,required,ratio,strong\n")

	for _, name := range planets {
		s, ok := reports[name]
		if !ok {
			continue
		}
		c := s.Components
		sb.WriteString(fmt.Sprintf("%s,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.3f,%.2f,%.3f,%t\n",
			name,
			c.Positional, c.Directional, c.Temporal, c.Motional, c.Natural, c.Aspectual,
			s.Total, s.Rupas, s.Required, s.Ratio, s.IsStrong,
		))
	}

	return sb.String()
}

package reporting

import (
	"fmt"
	"sort"
	"strings"

	"jyotish-lab/internal/ashtakavarga"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/pipeline"
	"jyotish-lab/internal/varga"
)

// FormatDegrees renders a longitude within its sign as 12°34'56".
func FormatDegrees(deg float64) string {
	total := int(deg*3600 + 0.5)
	return fmt.Sprintf("%02d°%02d'%02d\"", total/3600, total/60%60, total%60)
}

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *pipeline.Report) string {
	var sb strings.Builder

	// Header
	title := "Chart"
	if r.Input.Label != "" {
		title = r.Input.Label
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if r.ChartID != "" {
		sb.WriteString(fmt.Sprintf("Chart ID: `%s`\n\n", r.ChartID))
	}
	sb.WriteString(fmt.Sprintf("Birth (UTC): %s | JD %.6f | Lat %.4f | Lon %.4f\n\n",
		r.BirthUTC, r.JD, r.Input.Latitude, r.Input.Longitude))
	sb.WriteString(fmt.Sprintf("Ayanamsa: %s | Houses: %s\n\n", r.Config.Ayanamsa, r.Config.HouseSystem))

	// Stages
	if len(r.Stages) > 0 {
		sb.WriteString("## Stages\n\n")
		sb.WriteString("| Stage | Status | Reason |\n")
		sb.WriteString("|-------|--------|--------|\n")
		for _, s := range r.Stages {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.Stage, s.State, s.Reason))
		}
		sb.WriteString("\n")
	}

	// Houses
	sb.WriteString("## Houses\n\n")
	if len(r.Houses) > 0 {
		sb.WriteString(fmt.Sprintf("Ascendant: %s %s\n\n", domain.SignName(r.AscendantSign), FormatDegrees(domain.DegreeInSign(r.Ascendant))))
		sb.WriteString("| House | Sign | Cusp |\n")
		sb.WriteString("|-------|------|------|\n")
		for _, h := range r.Houses {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", h.House, h.SignName, FormatDegrees(domain.DegreeInSign(h.Longitude))))
		}
	} else {
		sb.WriteString("Astronomy was not computed.\n")
	}
	sb.WriteString("\n")

	// Planets
	sb.WriteString("## Planets\n\n")
	if len(r.Planets) > 0 {
		sb.WriteString("| Body | Sign | Degree | House | Nakshatra | Pada | Motion |\n")
		sb.WriteString("|------|------|--------|-------|-----------|------|--------|\n")
		for _, p := range r.Planets {
			motion := "D"
			if p.Retrograde {
				motion = "R"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s | %d | %s |\n",
				p.Position.Name, p.SignName, FormatDegrees(p.Position.Degree),
				p.Position.House, p.NakshatraName, p.Position.Pada, motion))
		}
	} else {
		sb.WriteString("No bodies available.\n")
	}
	sb.WriteString("\n")

	renderStrength(&sb, r)
	renderVargas(&sb, r)
	renderDashas(&sb, r)
	renderPanchanga(&sb, r)
	renderAshtakavarga(&sb, r)
	renderYogas(&sb, r)
	renderJaimini(&sb, r)
	renderDoshas(&sb, r)
	renderTransits(&sb, r)

	return sb.String()
}

func renderStrength(sb *strings.Builder, r *pipeline.Report) {
	sb.WriteString("## Shadbala\n\n")
	var rows int
	for _, p := range r.Planets {
		if p.Strength != nil {
			rows++
		}
	}
	if rows == 0 {
		sb.WriteString("No strength data available.\n\n")
		return
	}
	sb.WriteString("| Planet | Sthana | Dig | Kaala | Chesta | Naisargika | Drik | Rupas | Required | Ratio | Strong |\n")
	sb.WriteString("|--------|--------|-----|-------|--------|------------|------|-------|----------|-------|--------|\n")
	for _, p := range r.Planets {
		s := p.Strength
		if s == nil {
			continue
		}
		c := s.Components
		strong := "no"
		if s.IsStrong {
			strong = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %s |\n",
			s.Planet, c.Positional, c.Directional, c.Temporal, c.Motional, c.Natural, c.Aspectual,
			s.Rupas, s.Required, s.Ratio, strong))
	}
	sb.WriteString("\n")
}

func renderVargas(sb *strings.Builder, r *pipeline.Report) {
	if len(r.Vargas) == 0 {
		return
	}
	sb.WriteString("## Divisional Charts\n\n")
	sb.WriteString("| Body |")
	for _, code := range varga.Standard {
		sb.WriteString(fmt.Sprintf(" %s |", code))
	}
	sb.WriteString("\n|------|")
	for range varga.Standard {
		sb.WriteString("----|")
	}
	sb.WriteString("\n")
	for _, p := range r.Planets {
		name := p.Position.Name
		if _, ok := r.Vargas[varga.D1][name]; !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s |", name))
		for _, code := range varga.Standard {
			sb.WriteString(fmt.Sprintf(" %d |", r.Vargas[code][name]))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func sortedSystems[V any](m map[domain.DashaSystem]V) []domain.DashaSystem {
	out := make([]domain.DashaSystem, 0, len(m))
	for sys := range m {
		out = append(out, sys)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func renderDashas(sb *strings.Builder, r *pipeline.Report) {
	if len(r.Dashas) == 0 {
		return
	}
	sb.WriteString("## Dashas\n\n")
	for _, sys := range sortedSystems(r.Dashas) {
		sb.WriteString(fmt.Sprintf("### %s\n\n", sys))
		if b, ok := r.Balances[sys]; ok {
			sb.WriteString(fmt.Sprintf("Birth nakshatra %d (%s), ruler %s, balance %.2f years\n\n",
				b.Nakshatra, domain.NakshatraName(b.Nakshatra), b.Ruler, b.BalanceYears))
		}
		if chain := r.ActiveChains[sys]; len(chain) > 0 {
			rulers := make([]string, len(chain))
			for i, c := range chain {
				rulers[i] = c.Ruler
			}
			sb.WriteString(fmt.Sprintf("Active on %s: %s\n\n", domain.FormatJulianDay(r.AsOf), strings.Join(rulers, " / ")))
		}
		sb.WriteString("| Ruler | Start | End | Years |\n")
		sb.WriteString("|-------|-------|-----|-------|\n")
		for _, p := range r.Dashas[sys] {
			ruler := p.Ruler
			if p.Sign != 0 {
				ruler = fmt.Sprintf("%s (%s)", domain.SignName(p.Sign), p.Ruler)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f |\n",
				ruler, domain.FormatJulianDay(p.Start), domain.FormatJulianDay(p.End), p.DurationYears))
		}
		sb.WriteString("\n")
	}
}

func renderPanchanga(sb *strings.Builder, r *pipeline.Report) {
	if r.Panchanga == nil {
		return
	}
	p := r.Panchanga
	sb.WriteString("## Panchanga\n\n")
	sb.WriteString("| Limb | Value |\n")
	sb.WriteString("|------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tithi | %s %s (%d) |\n", p.Tithi.Paksha, p.Tithi.Name, p.Tithi.Index))
	sb.WriteString(fmt.Sprintf("| Vara | %s (%s) |\n", p.Vara.Name, p.Vara.Lord))
	sb.WriteString(fmt.Sprintf("| Nakshatra | %s pada %d |\n", p.Nakshatra.Name, p.Nakshatra.Pada))
	sb.WriteString(fmt.Sprintf("| Yoga | %s |\n", p.Yoga.Name))
	sb.WriteString(fmt.Sprintf("| Karana | %s |\n", p.Karana.Name))
	sb.WriteString("\n")
}

func renderYogas(sb *strings.Builder, r *pipeline.Report) {
	sb.WriteString("## Yogas\n\n")
	if len(r.Yogas) == 0 {
		sb.WriteString("No yogas detected.\n\n")
		return
	}
	for _, y := range r.Yogas {
		sb.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", y.Name, y.Category, y.Description))
	}
	sb.WriteString("\n")
}

func renderAshtakavarga(sb *strings.Builder, r *pipeline.Report) {
	if r.Ashtakavarga == nil {
		return
	}
	a := r.Ashtakavarga
	sb.WriteString("## Ashtakavarga\n\n")
	sb.WriteString("| Sign |")
	for _, p := range domain.ClassicalPlanets {
		sb.WriteString(fmt.Sprintf(" %s |", p[:2]))
	}
	sb.WriteString(" Sarva |\n|------|")
	sb.WriteString(strings.Repeat("----|", len(domain.ClassicalPlanets)))
	sb.WriteString("-------|\n")
	for sign := 1; sign <= domain.SignCount; sign++ {
		sb.WriteString(fmt.Sprintf("| %s |", domain.SignName(sign)))
		for _, p := range domain.ClassicalPlanets {
			sb.WriteString(fmt.Sprintf(" %d |", a.Bhinna[p].Sign(sign)))
		}
		mark := ""
		if a.Sarva.Sign(sign) >= ashtakavarga.StrongThreshold {
			mark = " *"
		}
		sb.WriteString(fmt.Sprintf(" %d%s |\n", a.Sarva.Sign(sign), mark))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %d. Signs marked * hold at least %d bindus.\n\n", a.Sarva.Total(), ashtakavarga.StrongThreshold))
}

func renderJaimini(sb *strings.Builder, r *pipeline.Report) {
	if r.Jaimini == nil {
		return
	}
	j := r.Jaimini
	sb.WriteString("## Jaimini\n\n")
	sb.WriteString("| Karaka | Planet | Degree |\n")
	sb.WriteString("|--------|--------|--------|\n")
	for _, k := range j.Karakas {
		sb.WriteString(fmt.Sprintf("| %s (%s) | %s | %s |\n", k.Role, k.Code, k.Planet, FormatDegrees(k.Degree)))
	}
	pads := make([]string, len(j.Arudhas))
	for i, a := range j.Arudhas {
		pads[i] = fmt.Sprintf("%s %s", a.Key, a.SignName)
	}
	sb.WriteString(fmt.Sprintf("\nArudha padas: %s\n\n", strings.Join(pads, ", ")))
	for _, y := range j.Yogas {
		sb.WriteString(fmt.Sprintf("- **%s**: %s (%s)\n", y.Name, strings.Join(y.Planets, " and "), y.Connection))
	}
	if len(j.Yogas) > 0 {
		sb.WriteString("\n")
	}
}

func renderDoshas(sb *strings.Builder, r *pipeline.Report) {
	if r.Doshas == nil {
		return
	}
	d := r.Doshas
	sb.WriteString("## Doshas\n\n")
	if m := d.Manglik; m != nil {
		switch {
		case m.Present:
			sb.WriteString(fmt.Sprintf("- Manglik: Mars in house %d\n", m.MarsHouse))
		case m.Cancelled:
			sb.WriteString(fmt.Sprintf("- Manglik: cancelled, %s (house %d)\n", m.Reason, m.MarsHouse))
		default:
			sb.WriteString("- Manglik: absent\n")
		}
	}
	if k := d.KalaSarpa; k != nil {
		if k.Present {
			sb.WriteString(fmt.Sprintf("- %s: %s, Rahu in house %d\n", k.Kind, k.Name, k.RahuHouse))
		} else {
			sb.WriteString("- Kala Sarpa: absent\n")
		}
	}
	sb.WriteString("\n")
}

func renderTransits(sb *strings.Builder, r *pipeline.Report) {
	if r.Transits == nil {
		return
	}
	t := r.Transits
	sb.WriteString(fmt.Sprintf("## Transits (%d days from %s)\n\n", t.Days, domain.FormatJulianDay(t.StartJD)))
	if len(t.Ingresses) == 0 {
		sb.WriteString("No ingresses in window.\n\n")
		return
	}
	sb.WriteString("| Date | Body | From | To |\n")
	sb.WriteString("|------|------|------|----|\n")
	for _, in := range t.Ingresses {
		body := in.Body
		if in.Retrograde {
			body += " (R)"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			domain.FormatJulianDay(in.JD), body, domain.SignName(in.FromSign), domain.SignName(in.ToSign)))
	}
	sb.WriteString("\n")
}

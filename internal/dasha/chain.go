package dasha

import "jyotish-lab/internal/domain"

// ActiveChain returns the periods containing jd, outermost first.
// It is empty when jd lies outside every root period.
func ActiveChain(periods []*domain.DashaPeriod, jd float64) []*domain.DashaPeriod {
	var chain []*domain.DashaPeriod
	level := periods
	for len(level) > 0 {
		var hit *domain.DashaPeriod
		for _, p := range level {
			if p.Contains(jd) {
				hit = p
				break
			}
		}
		if hit == nil {
			break
		}
		chain = append(chain, hit)
		level = hit.Children
	}
	return chain
}

// Count returns the number of nodes in a period forest.
func Count(periods []*domain.DashaPeriod) int {
	n := 0
	for _, p := range periods {
		n += 1 + Count(p.Children)
	}
	return n
}

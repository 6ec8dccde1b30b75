// Package ashtakavarga scores the twelve signs by the benefic points
// (bindus) each planet receives from the seven planets and the ascendant.
package ashtakavarga

import (
	"sort"

	"jyotish-lab/internal/domain"
)

// Ascendant is the eighth contributor alongside the seven planets.
const Ascendant = "Ascendant"

// StrongThreshold is the sarva score at or above which a sign is strong.
const StrongThreshold = 28

// Givers are the contributors in table order.
var Givers = []string{
	domain.Sun, domain.Moon, domain.Mars, domain.Mercury,
	domain.Jupiter, domain.Venus, domain.Saturn, Ascendant,
}

// Tables maps a receiving planet to, per giver, the houses counted from the
// giver's sign that receive a bindu.
type Tables map[string]map[string][]int

// DefaultTables returns the Parashari bindu tables.
func DefaultTables() Tables {
	return Tables{
		domain.Sun: {
			domain.Sun:     {1, 2, 4, 7, 8, 9, 10, 11},
			domain.Moon:    {3, 6, 10, 11},
			domain.Mars:    {1, 2, 4, 7, 8, 9, 10, 11},
			domain.Mercury: {3, 5, 6, 9, 10, 11, 12},
			domain.Jupiter: {5, 6, 9, 11},
			domain.Venus:   {6, 7, 12},
			domain.Saturn:  {1, 2, 4, 7, 8, 9, 10, 11},
			Ascendant:      {3, 4, 6, 10, 11, 12},
		},
		domain.Moon: {
			domain.Sun:     {3, 6, 7, 8, 10, 11},
			domain.Moon:    {1, 3, 6, 7, 10, 11},
			domain.Mars:    {2, 3, 5, 6, 9, 10, 11},
			domain.Mercury: {1, 3, 4, 5, 7, 8, 10, 11},
			domain.Jupiter: {1, 4, 7, 8, 10, 11, 12},
			domain.Venus:   {3, 4, 5, 7, 9, 10, 11},
			domain.Saturn:  {3, 5, 6, 11},
			Ascendant:      {3, 6, 10, 11},
		},
		domain.Mars: {
			domain.Sun:     {3, 5, 6, 10, 11},
			domain.Moon:    {3, 6, 11},
			domain.Mars:    {1, 2, 4, 7, 8, 10, 11},
			domain.Mercury: {3, 5, 6, 11},
			domain.Jupiter: {6, 10, 11, 12},
			domain.Venus:   {6, 8, 11, 12},
			domain.Saturn:  {1, 4, 7, 8, 9, 10, 11},
			Ascendant:      {1, 3, 6, 10, 11},
		},
		domain.Mercury: {
			domain.Sun:     {5, 6, 9, 11, 12},
			domain.Moon:    {2, 4, 6, 8, 10, 11},
			domain.Mars:    {1, 2, 4, 7, 8, 9, 10, 11},
			domain.Mercury: {1, 3, 5, 6, 9, 10, 11, 12},
			domain.Jupiter: {6, 8, 11, 12},
			domain.Venus:   {1, 2, 3, 4, 5, 8, 9, 11},
			domain.Saturn:  {1, 2, 4, 7, 8, 9, 10, 11},
			Ascendant:      {1, 2, 4, 6, 8, 10, 11},
		},
		domain.Jupiter: {
			domain.Sun:     {1, 2, 3, 4, 7, 8, 9, 10, 11},
			domain.Moon:    {2, 5, 7, 9, 11},
			domain.Mars:    {1, 2, 4, 7, 8, 10, 11},
			domain.Mercury: {1, 2, 4, 5, 6, 9, 10, 11},
			domain.Jupiter: {1, 2, 3, 4, 7, 8, 10, 11},
			domain.Venus:   {2, 5, 6, 9, 10, 11},
			domain.Saturn:  {3, 5, 6, 12},
			Ascendant:      {1, 2, 4, 5, 6, 7, 9, 10, 11},
		},
		domain.Venus: {
			domain.Sun:     {8, 11, 12},
			domain.Moon:    {1, 2, 3, 4, 5, 8, 9, 11, 12},
			domain.Mars:    {3, 4, 6, 9, 11, 12},
			domain.Mercury: {3, 5, 6, 9, 11},
			domain.Jupiter: {5, 8, 9, 10, 11},
			domain.Venus:   {1, 2, 3, 4, 5, 8, 9, 10, 11},
			domain.Saturn:  {3, 4, 5, 8, 9, 10, 11},
			Ascendant:      {1, 2, 3, 4, 5, 8, 9, 11},
		},
		domain.Saturn: {
			domain.Sun:     {1, 2, 4, 7, 8, 10, 11},
			domain.Moon:    {3, 6, 11},
			domain.Mars:    {3, 5, 6, 10, 11, 12},
			domain.Mercury: {6, 8, 9, 10, 11, 12},
			domain.Jupiter: {5, 6, 11, 12},
			domain.Venus:   {6, 11, 12},
			domain.Saturn:  {3, 5, 6, 11},
			Ascendant:      {1, 3, 4, 6, 10, 11},
		},
	}
}

// Scores holds one value per sign; index 0 is Aries.
type Scores [domain.SignCount]int

// Total sums the scores.
func (s Scores) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

// Sign returns the score of a 1-based sign.
func (s Scores) Sign(sign int) int {
	return s[domain.NormalizeSign(sign)-1]
}

// Result is the full ashtakavarga of a chart.
type Result struct {
	Bhinna  map[string]Scores `json:"bhinna" yaml:"bhinna"`
	Sarva   Scores            `json:"sarva" yaml:"sarva"`
	Reduced map[string]Scores `json:"trikona_reduced" yaml:"trikona_reduced"`
	Strong  []int             `json:"strong_signs" yaml:"strong_signs"`
	Missing []string          `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Calculator computes ashtakavarga from an injected table set.
type Calculator struct {
	tables Tables
}

// New creates a calculator. A nil table set uses DefaultTables.
func New(tables Tables) *Calculator {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Calculator{tables: tables}
}

// Bhinna returns the individual ashtakavarga of receiver. signs maps givers
// to 1-based signs; absent givers contribute nothing.
func (c *Calculator) Bhinna(receiver string, signs map[string]int) Scores {
	var out Scores
	for giver, houses := range c.tables[receiver] {
		from, ok := signs[giver]
		if !ok {
			continue
		}
		for _, h := range houses {
			out[domain.NormalizeSign(from+h-1)-1]++
		}
	}
	return out
}

// Compute builds every bhinna table, the sarva total and the trikona
// reduction.
func (c *Calculator) Compute(signs map[string]int) Result {
	res := Result{
		Bhinna:  make(map[string]Scores, len(c.tables)),
		Reduced: make(map[string]Scores, len(c.tables)),
	}
	for receiver := range c.tables {
		b := c.Bhinna(receiver, signs)
		res.Bhinna[receiver] = b
		res.Reduced[receiver] = TrikonaReduce(b)
		for i, v := range b {
			res.Sarva[i] += v
		}
	}
	for i, v := range res.Sarva {
		if v >= StrongThreshold {
			res.Strong = append(res.Strong, i+1)
		}
	}
	for _, g := range Givers {
		if _, ok := signs[g]; !ok {
			res.Missing = append(res.Missing, g)
		}
	}
	sort.Strings(res.Missing)
	return res
}

// SignsFrom collects the signs of the classical planets and the ascendant.
func SignsFrom(ascendant float64, bodies map[string]*domain.CelestialBodyPosition) map[string]int {
	signs := map[string]int{Ascendant: domain.SignOf(ascendant)}
	for _, p := range domain.ClassicalPlanets {
		if b, ok := bodies[p]; ok {
			signs[p] = b.Sign
		}
	}
	return signs
}

// TrikonaReduce subtracts, within each group of trinal signs, the smallest
// score of the group from all three.
func TrikonaReduce(s Scores) Scores {
	out := s
	for start := 0; start < 4; start++ {
		a, b, c := start, start+4, start+8
		m := min(s[a], s[b], s[c])
		out[a] -= m
		out[b] -= m
		out[c] -= m
	}
	return out
}

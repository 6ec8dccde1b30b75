// Package maitri classifies planetary relationships: natural, temporal and compound.
package maitri

import "jyotish-lab/internal/domain"

// Relation is a natural or temporal relationship.
type Relation int

const (
	Enemy   Relation = -1
	Neutral Relation = 0
	Friend  Relation = 1
)

func (r Relation) String() string {
	switch r {
	case Friend:
		return "Friend"
	case Enemy:
		return "Enemy"
	default:
		return "Neutral"
	}
}

// Compound is the five-fold (plus Own) relationship of a planet to a sign.
type Compound string

const (
	Own         Compound = "Own"
	GreatFriend Compound = "GreatFriend"
	CompFriend  Compound = "Friend"
	CompNeutral Compound = "Neutral"
	CompEnemy   Compound = "Enemy"
	GreatEnemy  Compound = "GreatEnemy"
)

// NaturalEntry lists one planet's permanent friends and enemies.
// Anyone not listed is neutral.
type NaturalEntry struct {
	Friends []string
	Enemies []string
}

// Tables are the immutable lookup tables of the engine.
type Tables struct {
	Natural map[string]NaturalEntry
	// Rulers is indexed by sign number - 1.
	Rulers [domain.SignCount]string
}

// DefaultTables returns the classical relationship and rulership tables.
func DefaultTables() Tables {
	return Tables{
		Natural: map[string]NaturalEntry{
			domain.Sun:     {Friends: []string{domain.Moon, domain.Mars, domain.Jupiter}, Enemies: []string{domain.Venus, domain.Saturn}},
			domain.Moon:    {Friends: []string{domain.Sun, domain.Mercury}},
			domain.Mars:    {Friends: []string{domain.Sun, domain.Moon, domain.Jupiter}, Enemies: []string{domain.Mercury}},
			domain.Mercury: {Friends: []string{domain.Sun, domain.Venus}, Enemies: []string{domain.Moon}},
			domain.Jupiter: {Friends: []string{domain.Sun, domain.Moon, domain.Mars}, Enemies: []string{domain.Mercury, domain.Venus}},
			domain.Venus:   {Friends: []string{domain.Mercury, domain.Saturn}, Enemies: []string{domain.Sun, domain.Moon}},
			domain.Saturn:  {Friends: []string{domain.Mercury, domain.Venus}, Enemies: []string{domain.Sun, domain.Moon, domain.Mars}},
			domain.Rahu:    {Friends: []string{domain.Venus, domain.Saturn}, Enemies: []string{domain.Sun, domain.Moon, domain.Mars}},
			domain.Ketu:    {Friends: []string{domain.Mars, domain.Venus}, Enemies: []string{domain.Sun, domain.Moon, domain.Saturn}},
		},
		Rulers: [domain.SignCount]string{
			domain.Mars, domain.Venus, domain.Mercury, domain.Moon, domain.Sun, domain.Mercury,
			domain.Venus, domain.Mars, domain.Jupiter, domain.Saturn, domain.Saturn, domain.Jupiter,
		},
	}
}

// Engine answers relationship queries. It is safe for concurrent use.
type Engine struct {
	natural map[string]map[string]Relation
	rulers  [domain.SignCount]string
}

// New builds an engine from tables.
func New(t Tables) *Engine {
	e := &Engine{
		natural: make(map[string]map[string]Relation, len(t.Natural)),
		rulers:  t.Rulers,
	}
	for planet, entry := range t.Natural {
		m := make(map[string]Relation, len(entry.Friends)+len(entry.Enemies))
		for _, f := range entry.Friends {
			m[f] = Friend
		}
		for _, en := range entry.Enemies {
			m[en] = Enemy
		}
		e.natural[planet] = m
	}
	return e
}

// NewDefault builds an engine from DefaultTables.
func NewDefault() *Engine {
	return New(DefaultTables())
}

// Ruler returns the lord of a 1-based sign.
func (e *Engine) Ruler(sign int) string {
	return e.rulers[domain.NormalizeSign(sign)-1]
}

// Natural returns the permanent relationship of planet toward other.
func (e *Engine) Natural(planet, other string) Relation {
	return e.natural[planet][other]
}

// Temporal classifies the sign of another body relative to fromSign:
// signs 2, 3, 4, 10, 11 and 12 counted from fromSign are temporary friends.
func (e *Engine) Temporal(fromSign, toSign int) Relation {
	switch domain.SignDistance(fromSign, toSign) {
	case 1, 2, 3, 9, 10, 11:
		return Friend
	}
	return Enemy
}

// Compound returns the relationship of planet (placed in planetSign) toward
// the lord of targetSign. A planet in a sign it rules is Own.
func (e *Engine) Compound(planet string, targetSign, planetSign int) Compound {
	lord := e.Ruler(targetSign)
	if lord == planet {
		return Own
	}
	switch int(e.Natural(planet, lord)) + int(e.Temporal(planetSign, targetSign)) {
	case 2:
		return GreatFriend
	case 1:
		return CompFriend
	case 0:
		return CompNeutral
	case -1:
		return CompEnemy
	default:
		return GreatEnemy
	}
}

// Matrix returns the compound relationship of every planet toward the lord
// of every other planet's sign, keyed by planet then other planet.
func (e *Engine) Matrix(bodies map[string]*domain.CelestialBodyPosition) map[string]map[string]Compound {
	out := make(map[string]map[string]Compound)
	for _, p := range domain.ClassicalPlanets {
		pb, ok := bodies[p]
		if !ok {
			continue
		}
		row := make(map[string]Compound)
		for _, q := range domain.ClassicalPlanets {
			qb, ok := bodies[q]
			if !ok || q == p {
				continue
			}
			row[q] = e.Compound(p, qb.Sign, pb.Sign)
		}
		out[p] = row
	}
	return out
}

package dasha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/maitri"
)

func TestIsReverseSign(t *testing.T) {
	reverse := map[int]bool{4: true, 5: true, 6: true, 10: true, 11: true, 12: true}
	for s := 1; s <= 12; s++ {
		assert.Equal(t, reverse[s], IsReverseSign(s), "sign %d", s)
	}
}

func TestSignDuration(t *testing.T) {
	rel := maitri.NewDefault()
	pl := Placements{
		domain.Mars:  {Sign: 1},
		domain.Sun:   {Sign: 8},
		domain.Venus: {Sign: 4},
	}
	// Lord in the sign itself counts as zero and becomes twelve.
	assert.Equal(t, 12, SignDuration(rel, 1, pl))
	// Leo counts backward: Leo to Scorpio in reverse is 9.
	assert.Equal(t, 9, SignDuration(rel, 5, pl))
	// Taurus counts forward to Cancer: 2.
	assert.Equal(t, 2, SignDuration(rel, 2, pl))
	// Missing lord yields the maximum span.
	assert.Equal(t, 12, SignDuration(rel, 3, pl))
}

func TestStrongerLord(t *testing.T) {
	tests := []struct {
		name string
		pl   Placements
		want string
	}{
		{
			name: "only one present",
			pl:   Placements{domain.Ketu: {Sign: 3}},
			want: domain.Ketu,
		},
		{
			name: "lord in own sign yields",
			pl:   Placements{domain.Mars: {Sign: 8}, domain.Ketu: {Sign: 3}},
			want: domain.Ketu,
		},
		{
			name: "more conjunctions wins",
			pl: Placements{
				domain.Mars: {Sign: 1, Degree: 2},
				domain.Sun:  {Sign: 1},
				domain.Ketu: {Sign: 7, Degree: 20},
			},
			want: domain.Mars,
		},
		{
			name: "degree breaks conjunction tie",
			pl:   Placements{domain.Mars: {Sign: 1, Degree: 2}, domain.Ketu: {Sign: 7, Degree: 20}},
			want: domain.Ketu,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StrongerLord(8, domain.Mars, domain.Ketu, tt.pl))
		})
	}
}

func TestStrongerSign(t *testing.T) {
	pl := Placements{
		domain.Sun:  {Sign: 7},
		domain.Moon: {Sign: 7},
		domain.Mars: {Sign: 1},
		domain.Rahu: {Sign: 1},
		domain.Ketu: {Sign: 1},
	}
	assert.Equal(t, 7, StrongerSign(1, 7, pl))
	delete(pl, domain.Moon)
	assert.Equal(t, 1, StrongerSign(1, 7, pl), "nodes are not counted, tie goes to first")
}

func samplePlacements() Placements {
	return Placements{
		domain.Sun:     {Sign: 5, Degree: 10},
		domain.Moon:    {Sign: 7, Degree: 1},
		domain.Mars:    {Sign: 10, Degree: 28},
		domain.Mercury: {Sign: 6, Degree: 15},
		domain.Jupiter: {Sign: 4, Degree: 5},
		domain.Venus:   {Sign: 12, Degree: 27},
		domain.Saturn:  {Sign: 7, Degree: 20},
		domain.Rahu:    {Sign: 2, Degree: 3},
		domain.Ketu:    {Sign: 8, Degree: 3},
	}
}

func checkSignTree(t *testing.T, periods []*domain.DashaPeriod) {
	t.Helper()
	require.GreaterOrEqual(t, len(periods), 12)
	assert.Equal(t, birthJD, periods[0].Start)
	for i, p := range periods {
		if i > 0 {
			assert.InDelta(t, periods[i-1].End, p.Start, 1e-6)
		}
		require.Len(t, p.Children, 12)
		checkPartition(t, p)
	}
	// First cycle covers every sign once.
	seen := make(map[int]bool)
	for _, p := range periods[:12] {
		seen[p.Sign] = true
	}
	assert.Len(t, seen, 12)
}

func TestChara(t *testing.T) {
	rel := maitri.NewDefault()
	pl := samplePlacements()

	// Aries ascendant: the ninth is Sagittarius, counted forward.
	periods := Chara(rel, 1, pl, birthJD)
	checkSignTree(t, periods)
	assert.Equal(t, 1, periods[0].Sign)
	assert.Equal(t, 2, periods[1].Sign)
	assert.Equal(t, domain.DashaChara, periods[0].System)

	// Taurus ascendant: the ninth is Capricorn, counted backward.
	periods = Chara(rel, 2, pl, birthJD)
	checkSignTree(t, periods)
	assert.Equal(t, 2, periods[0].Sign)
	assert.Equal(t, 1, periods[1].Sign)
}

func TestNarayana(t *testing.T) {
	rel := maitri.NewDefault()
	pl := samplePlacements()

	// Libra holds Moon and Saturn, Aries is empty: start from Libra (movable, odd).
	periods := Narayana(rel, 1, pl, birthJD)
	checkSignTree(t, periods)
	assert.Equal(t, 7, periods[0].Sign)
	assert.Equal(t, 8, periods[1].Sign)
	assert.Equal(t, domain.DashaNarayana, periods[0].System)

	// Leo (fixed, odd) holds the Sun and Aquarius is empty: forward by sixth signs.
	periods = Narayana(rel, 5, pl, birthJD)
	checkSignTree(t, periods)
	assert.Equal(t, 5, periods[0].Sign)
	assert.Equal(t, 10, periods[1].Sign)

	// Pisces ascendant (dual, even) holds Venus; Virgo holds Mercury. Tie goes to Pisces,
	// progressing backward by angles.
	periods = Narayana(rel, 12, pl, birthJD)
	checkSignTree(t, periods)
	assert.Equal(t, 12, periods[0].Sign)
	assert.Equal(t, 9, periods[1].Sign)
}

func TestPlacementsFrom(t *testing.T) {
	bodies := map[string]*domain.CelestialBodyPosition{
		domain.Sun:  domain.NewBodyPosition(0, domain.Sun, 100, 1, 0, 0),
		domain.Ketu: domain.NewBodyPosition(domain.BodyIDKetu, domain.Ketu, 280, 0, 0, 0),
		"Dhooma":    domain.NewBodyPosition(domain.SyntheticBodyID, "Dhooma", 233, 0, 0, 0),
	}
	pl := PlacementsFrom(bodies)
	assert.Len(t, pl, 2)
	assert.Equal(t, 4, pl[domain.Sun].Sign)
	assert.Equal(t, 10, pl[domain.Ketu].Sign)
}

// Package transit scans daily planetary positions over a window and
// reports sign ingresses.
package transit

import (
	"context"
	"errors"
	"fmt"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/upagraha"
)

// Snapshot is the set of positions on one day.
type Snapshot struct {
	JD        float64            `json:"jd" yaml:"jd"`
	Longitude map[string]float64 `json:"longitude" yaml:"longitude"`
	Sign      map[string]int     `json:"sign" yaml:"sign"`
}

// Ingress marks a body entering a new sign between two consecutive days.
type Ingress struct {
	Body       string  `json:"body" yaml:"body"`
	JD         float64 `json:"jd" yaml:"jd"` // first day observed in the new sign
	FromSign   int     `json:"from_sign" yaml:"from_sign"`
	ToSign     int     `json:"to_sign" yaml:"to_sign"`
	Retrograde bool    `json:"retrograde" yaml:"retrograde"`
}

// Forecast is the result of a scan.
type Forecast struct {
	StartJD   float64    `json:"start_jd" yaml:"start_jd"`
	Days      int        `json:"days" yaml:"days"`
	Snapshots []Snapshot `json:"-" yaml:"-"`
	Ingresses []Ingress  `json:"ingresses" yaml:"ingresses"`
	// MoonHouses gives each body's house counted from the natal Moon sign
	// at the start of the window.
	MoonHouses map[string]int `json:"moon_houses,omitempty" yaml:"moon_houses,omitempty"`
}

// Scanner samples a provider once per day.
type Scanner struct {
	provider ephemeris.Provider
	mode     domain.Ayanamsa
}

// NewScanner creates a scanner.
func NewScanner(p ephemeris.Provider, mode domain.Ayanamsa) *Scanner {
	return &Scanner{provider: p, mode: mode}
}

// Scan samples days+1 instants starting at startJD. A body the provider
// cannot place is left out of that day's snapshot. natalMoonSign may be 0
// to skip Moon-relative houses.
func (s *Scanner) Scan(ctx context.Context, startJD float64, days int, natalMoonSign int) (*Forecast, error) {
	if days <= 0 {
		return nil, fmt.Errorf("transit window must be positive, got %d days", days)
	}

	f := &Forecast{StartJD: startJD, Days: days}
	speeds := make(map[string]float64)

	for d := 0; d <= days; d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		jd := startJD + float64(d)
		snap := Snapshot{
			JD:        jd,
			Longitude: make(map[string]float64),
			Sign:      make(map[string]int),
		}
		for _, b := range domain.EphemerisBodies {
			pos, err := s.provider.Position(ctx, jd, b.ID, s.mode)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				continue
			}
			snap.Longitude[b.Name] = domain.NormalizeLongitude(pos.Longitude)
			snap.Sign[b.Name] = domain.SignOf(pos.Longitude)
			speeds[b.Name] = pos.Speed
			if b.Name == domain.Rahu {
				k := upagraha.KetuLongitude(pos.Longitude)
				snap.Longitude[domain.Ketu] = k
				snap.Sign[domain.Ketu] = domain.SignOf(k)
				speeds[domain.Ketu] = pos.Speed
			}
		}

		if n := len(f.Snapshots); n > 0 {
			f.Ingresses = append(f.Ingresses, Ingresses(f.Snapshots[n-1], snap, speeds)...)
		}
		f.Snapshots = append(f.Snapshots, snap)
	}

	if natalMoonSign > 0 && len(f.Snapshots) > 0 {
		f.MoonHouses = make(map[string]int)
		for name, sign := range f.Snapshots[0].Sign {
			f.MoonHouses[name] = domain.HouseFrom(natalMoonSign, sign)
		}
	}
	return f, nil
}

// Ingresses compares two consecutive snapshots.
func Ingresses(prev, next Snapshot, speeds map[string]float64) []Ingress {
	var out []Ingress
	for _, b := range append(append([]domain.Body{}, domain.EphemerisBodies...), domain.Body{ID: domain.BodyIDKetu, Name: domain.Ketu}) {
		from, ok1 := prev.Sign[b.Name]
		to, ok2 := next.Sign[b.Name]
		if !ok1 || !ok2 || from == to {
			continue
		}
		out = append(out, Ingress{
			Body:       b.Name,
			JD:         next.JD,
			FromSign:   from,
			ToSign:     to,
			Retrograde: speeds[b.Name] < 0,
		})
	}
	return out
}

package observability

import (
	"context"
	"time"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
)

// instrumentedProvider records latency and errors of every ephemeris call.
type instrumentedProvider struct {
	next    ephemeris.Provider
	metrics *Metrics
}

// InstrumentProvider wraps p so each call is observed by m.
func InstrumentProvider(p ephemeris.Provider, m *Metrics) ephemeris.Provider {
	return &instrumentedProvider{next: p, metrics: m}
}

func (p *instrumentedProvider) observe(method string, start time.Time, err error) {
	p.metrics.EphemerisLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.EphemerisErrors.WithLabelValues(method).Inc()
	}
}

func (p *instrumentedProvider) Position(ctx context.Context, jd float64, bodyID int, mode domain.Ayanamsa) (ephemeris.Position, error) {
	start := time.Now()
	pos, err := p.next.Position(ctx, jd, bodyID, mode)
	p.observe(ephemeris.MethodPosition, start, err)
	return pos, err
}

func (p *instrumentedProvider) Houses(ctx context.Context, jd, lat, lon float64, system domain.HouseSystem, mode domain.Ayanamsa) (ephemeris.Houses, error) {
	start := time.Now()
	h, err := p.next.Houses(ctx, jd, lat, lon, system, mode)
	p.observe(ephemeris.MethodHouses, start, err)
	return h, err
}

func (p *instrumentedProvider) RiseSet(ctx context.Context, jd, lat, lon float64) (ephemeris.RiseSet, error) {
	start := time.Now()
	rs, err := p.next.RiseSet(ctx, jd, lat, lon)
	p.observe(ephemeris.MethodRiseSet, start, err)
	return rs, err
}

package storage

import (
	"context"
	"fmt"

	"jyotish-lab/internal/domain"
)

// ChartStore provides access to charts storage.
type ChartStore interface {
	// Insert adds a new chart. Returns ErrDuplicateKey if chart_id exists.
	Insert(ctx context.Context, c *domain.ChartRecord) error

	// GetByID retrieves a chart by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, chartID string) (*domain.ChartRecord, error)

	// GetByLabel retrieves all charts with a label, ordered by created_at ASC.
	GetByLabel(ctx context.Context, label string) ([]*domain.ChartRecord, error)

	// List retrieves all charts ordered by created_at ASC, chart_id ASC.
	List(ctx context.Context) ([]*domain.ChartRecord, error)
}

// StrengthStore provides access to planet_strength storage.
type StrengthStore interface {
	// InsertBulk adds the reports of one or more charts atomically.
	// Fails entire batch on duplicate (chart_id, planet).
	InsertBulk(ctx context.Context, records []*domain.StrengthRecord) error

	// GetByChartID retrieves all reports of a chart, ordered by planet ASC.
	GetByChartID(ctx context.Context, chartID string) ([]*domain.StrengthRecord, error)
}

// DashaPeriodStore provides access to dasha_periods storage.
type DashaPeriodStore interface {
	// InsertBulk adds flattened periods. Fails entire batch on duplicate
	// (chart_id, system, path, start_jd).
	InsertBulk(ctx context.Context, periods []*domain.DashaPeriodRecord) error

	// GetByChartID retrieves all periods of one system, ordered by start_jd ASC, level ASC.
	GetByChartID(ctx context.Context, chartID string, system domain.DashaSystem) ([]*domain.DashaPeriodRecord, error)

	// GetActive retrieves the periods containing jd (start_jd <= jd < end_jd), ordered by level ASC.
	GetActive(ctx context.Context, chartID string, system domain.DashaSystem, jd float64) ([]*domain.DashaPeriodRecord, error)
}

// DashaPeriodKey is the uniqueness key of a flattened period.
func DashaPeriodKey(p *domain.DashaPeriodRecord) string {
	return fmt.Sprintf("%s|%s|%s|%.8f", p.ChartID, p.System, p.Path, p.StartJD)
}

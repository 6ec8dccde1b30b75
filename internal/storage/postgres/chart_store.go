package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// ChartStore implements storage.ChartStore using PostgreSQL.
type ChartStore struct {
	pool *Pool
}

// NewChartStore creates a new ChartStore.
func NewChartStore(pool *Pool) *ChartStore {
	return &ChartStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ChartStore = (*ChartStore)(nil)

const chartColumns = `
	chart_id, label, birth_jd, latitude, longitude,
	ayanamsa, house_system, ascendant, moon_long, created_at
`

// Insert adds a new chart. Returns ErrDuplicateKey if chart_id exists.
func (s *ChartStore) Insert(ctx context.Context, c *domain.ChartRecord) error {
	if c == nil || c.ChartID == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO charts (` + chartColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.pool.Exec(ctx, query,
		c.ChartID, c.Label, c.BirthJD, c.Latitude, c.Longitude,
		string(c.Ayanamsa), string(c.HouseSystem), c.Ascendant, c.MoonLong, c.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert chart: %w", err)
	}
	return nil
}

// GetByID retrieves a chart by its ID. Returns ErrNotFound if not exists.
func (s *ChartStore) GetByID(ctx context.Context, chartID string) (*domain.ChartRecord, error) {
	query := `SELECT ` + chartColumns + ` FROM charts WHERE chart_id = $1`

	c, err := scanChart(s.pool.QueryRow(ctx, query, chartID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get chart by id: %w", err)
	}
	return c, nil
}

// GetByLabel retrieves all charts with a label.
func (s *ChartStore) GetByLabel(ctx context.Context, label string) ([]*domain.ChartRecord, error) {
	query := `SELECT ` + chartColumns + ` FROM charts WHERE label = $1 ORDER BY created_at ASC, chart_id ASC`

	rows, err := s.pool.Query(ctx, query, label)
	if err != nil {
		return nil, fmt.Errorf("get charts by label: %w", err)
	}
	defer rows.Close()

	return scanCharts(rows)
}

// List retrieves all charts.
func (s *ChartStore) List(ctx context.Context) ([]*domain.ChartRecord, error) {
	query := `SELECT ` + chartColumns + ` FROM charts ORDER BY created_at ASC, chart_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	defer rows.Close()

	return scanCharts(rows)
}

// scanChart scans a single row into a ChartRecord.
func scanChart(row pgx.Row) (*domain.ChartRecord, error) {
	var c domain.ChartRecord
	var ayanamsa, houses string

	err := row.Scan(
		&c.ChartID, &c.Label, &c.BirthJD, &c.Latitude, &c.Longitude,
		&ayanamsa, &houses, &c.Ascendant, &c.MoonLong, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Ayanamsa = domain.Ayanamsa(ayanamsa)
	c.HouseSystem = domain.HouseSystem(houses)
	return &c, nil
}

// scanCharts scans multiple rows into a slice of ChartRecord.
func scanCharts(rows pgx.Rows) ([]*domain.ChartRecord, error) {
	var charts []*domain.ChartRecord

	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chart row: %w", err)
		}
		charts = append(charts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chart rows: %w", err)
	}

	return charts, nil
}

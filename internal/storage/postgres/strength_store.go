package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// StrengthStore implements storage.StrengthStore using PostgreSQL.
// Only the six component totals are persisted; the breakdowns are
// recomputed with the chart.
type StrengthStore struct {
	pool *Pool
}

// NewStrengthStore creates a new StrengthStore.
func NewStrengthStore(pool *Pool) *StrengthStore {
	return &StrengthStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StrengthStore = (*StrengthStore)(nil)

// InsertBulk adds reports atomically using a pgx batch inside one transaction.
func (s *StrengthStore) InsertBulk(ctx context.Context, records []*domain.StrengthRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO planet_strength (
			chart_id, planet,
			positional, directional, temporal, motional, natural, aspectual,
			total, rupas, required, ratio, is_strong
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	batch := &pgx.Batch{}
	for _, r := range records {
		if r == nil || r.ChartID == "" || r.Planet == "" {
			return storage.ErrInvalidInput
		}
		c := r.Components
		batch.Queue(query,
			r.ChartID, r.Planet,
			c.Positional, c.Directional, c.Temporal, c.Motional, c.Natural, c.Aspectual,
			r.Total, r.Rupas, r.Required, r.Ratio, r.IsStrong,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := br.Exec(); err != nil {
			br.Close()
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert planet strength: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByChartID retrieves all reports of a chart ordered by planet.
func (s *StrengthStore) GetByChartID(ctx context.Context, chartID string) ([]*domain.StrengthRecord, error) {
	query := `
		SELECT
			chart_id, planet,
			positional, directional, temporal, motional, natural, aspectual,
			total, rupas, required, ratio, is_strong
		FROM planet_strength
		WHERE chart_id = $1
		ORDER BY planet ASC
	`

	rows, err := s.pool.Query(ctx, query, chartID)
	if err != nil {
		return nil, fmt.Errorf("get planet strength by chart id: %w", err)
	}
	defer rows.Close()

	var out []*domain.StrengthRecord
	for rows.Next() {
		var r domain.StrengthRecord
		c := &r.Components
		err := rows.Scan(
			&r.ChartID, &r.Planet,
			&c.Positional, &c.Directional, &c.Temporal, &c.Motional, &c.Natural, &c.Aspectual,
			&r.Total, &r.Rupas, &r.Required, &r.Ratio, &r.IsStrong,
		)
		if err != nil {
			return nil, fmt.Errorf("scan planet strength row: %w", err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate planet strength rows: %w", err)
	}
	return out, nil
}

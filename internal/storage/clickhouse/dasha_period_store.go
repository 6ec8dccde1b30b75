package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// DashaPeriodStore implements storage.DashaPeriodStore using ClickHouse.
type DashaPeriodStore struct {
	conn *Conn
}

// NewDashaPeriodStore creates a new DashaPeriodStore.
func NewDashaPeriodStore(conn *Conn) *DashaPeriodStore {
	return &DashaPeriodStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DashaPeriodStore = (*DashaPeriodStore)(nil)

const dashaColumns = `chart_id, system, path, level, ruler, sign, start_jd, end_jd`

// InsertBulk adds periods in a single batch. ReplacingMergeTree does not
// reject duplicates, so charts already holding periods for a system are
// refused up front to keep append-only semantics.
func (s *DashaPeriodStore) InsertBulk(ctx context.Context, periods []*domain.DashaPeriodRecord) error {
	if len(periods) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(periods))
	systems := make(map[[2]string]struct{})
	for _, p := range periods {
		if p == nil || p.ChartID == "" || p.EndJD < p.StartJD {
			return storage.ErrInvalidInput
		}
		key := storage.DashaPeriodKey(p)
		if _, dup := seen[key]; dup {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
		systems[[2]string{p.ChartID, string(p.System)}] = struct{}{}
	}

	for k := range systems {
		exists, err := s.exists(ctx, k[0], k[1])
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO dasha_periods (`+dashaColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range periods {
		err = batch.Append(
			p.ChartID, string(p.System), p.Path, uint8(p.Level),
			p.Ruler, uint8(p.Sign), p.StartJD, p.EndJD,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByChartID retrieves all periods of a system ordered by start, then level.
func (s *DashaPeriodStore) GetByChartID(ctx context.Context, chartID string, system domain.DashaSystem) ([]*domain.DashaPeriodRecord, error) {
	query := `
		SELECT ` + dashaColumns + `
		FROM dasha_periods FINAL
		WHERE chart_id = ? AND system = ?
		ORDER BY start_jd ASC, level ASC
	`

	rows, err := s.conn.Query(ctx, query, chartID, string(system))
	if err != nil {
		return nil, fmt.Errorf("query by chart id: %w", err)
	}
	defer rows.Close()

	return scanDashaPeriods(rows)
}

// GetActive retrieves the periods containing jd ordered by level.
func (s *DashaPeriodStore) GetActive(ctx context.Context, chartID string, system domain.DashaSystem, jd float64) ([]*domain.DashaPeriodRecord, error) {
	query := `
		SELECT ` + dashaColumns + `
		FROM dasha_periods FINAL
		WHERE chart_id = ? AND system = ? AND start_jd <= ? AND end_jd > ?
		ORDER BY level ASC
	`

	rows, err := s.conn.Query(ctx, query, chartID, string(system), jd, jd)
	if err != nil {
		return nil, fmt.Errorf("query active periods: %w", err)
	}
	defer rows.Close()

	return scanDashaPeriods(rows)
}

func (s *DashaPeriodStore) exists(ctx context.Context, chartID, system string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM dasha_periods WHERE chart_id = ? AND system = ?`,
		chartID, system,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanDashaPeriods(rows driver.Rows) ([]*domain.DashaPeriodRecord, error) {
	var out []*domain.DashaPeriodRecord
	for rows.Next() {
		var (
			p           domain.DashaPeriodRecord
			system      string
			level, sign uint8
		)
		if err := rows.Scan(&p.ChartID, &system, &p.Path, &level, &p.Ruler, &sign, &p.StartJD, &p.EndJD); err != nil {
			return nil, fmt.Errorf("scan dasha period: %w", err)
		}
		p.System = domain.DashaSystem(system)
		p.Level = int(level)
		p.Sign = int(sign)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dasha periods: %w", err)
	}
	return out, nil
}

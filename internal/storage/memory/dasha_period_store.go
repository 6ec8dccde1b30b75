package memory

import (
	"context"
	"sort"
	"sync"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// DashaPeriodStore is an in-memory implementation of storage.DashaPeriodStore.
type DashaPeriodStore struct {
	mu   sync.RWMutex
	keys map[string]struct{}
	data []*domain.DashaPeriodRecord
}

// NewDashaPeriodStore creates a new in-memory dasha period store.
func NewDashaPeriodStore() *DashaPeriodStore {
	return &DashaPeriodStore{
		keys: make(map[string]struct{}),
	}
}

// InsertBulk adds periods atomically. Fails entire batch on any duplicate.
func (s *DashaPeriodStore) InsertBulk(_ context.Context, periods []*domain.DashaPeriodRecord) error {
	if len(periods) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(periods))
	for _, p := range periods {
		if p == nil || p.ChartID == "" || p.EndJD < p.StartJD {
			return storage.ErrInvalidInput
		}
		key := storage.DashaPeriodKey(p)
		if _, dup := batch[key]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.keys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batch[key] = struct{}{}
	}

	for _, p := range periods {
		s.keys[storage.DashaPeriodKey(p)] = struct{}{}
		periodCopy := *p
		s.data = append(s.data, &periodCopy)
	}
	return nil
}

// GetByChartID retrieves all periods of a system ordered by start, then level.
func (s *DashaPeriodStore) GetByChartID(_ context.Context, chartID string, system domain.DashaSystem) ([]*domain.DashaPeriodRecord, error) {
	result := s.filter(func(p *domain.DashaPeriodRecord) bool {
		return p.ChartID == chartID && p.System == system
	})
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].StartJD != result[j].StartJD {
			return result[i].StartJD < result[j].StartJD
		}
		return result[i].Level < result[j].Level
	})
	return result, nil
}

// GetActive retrieves the periods containing jd ordered by level.
func (s *DashaPeriodStore) GetActive(_ context.Context, chartID string, system domain.DashaSystem, jd float64) ([]*domain.DashaPeriodRecord, error) {
	result := s.filter(func(p *domain.DashaPeriodRecord) bool {
		return p.ChartID == chartID && p.System == system && p.StartJD <= jd && jd < p.EndJD
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Level < result[j].Level
	})
	return result, nil
}

func (s *DashaPeriodStore) filter(keep func(*domain.DashaPeriodRecord) bool) []*domain.DashaPeriodRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DashaPeriodRecord
	for _, p := range s.data {
		if keep(p) {
			periodCopy := *p
			result = append(result, &periodCopy)
		}
	}
	return result
}

// Verify interface compliance at compile time.
var _ storage.DashaPeriodStore = (*DashaPeriodStore)(nil)

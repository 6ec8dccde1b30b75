package memory

import (
	"context"
	"sort"
	"sync"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// StrengthStore is an in-memory implementation of storage.StrengthStore.
type StrengthStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.StrengthRecord // chart_id -> planet
}

// NewStrengthStore creates a new in-memory strength store.
func NewStrengthStore() *StrengthStore {
	return &StrengthStore{
		data: make(map[string]map[string]*domain.StrengthRecord),
	}
}

// InsertBulk adds reports atomically. Fails entire batch on any duplicate.
func (s *StrengthStore) InsertBulk(_ context.Context, records []*domain.StrengthRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before writing
	seen := make(map[string]struct{})
	for _, r := range records {
		if r == nil || r.ChartID == "" || r.Planet == "" {
			return storage.ErrInvalidInput
		}
		key := r.ChartID + "|" + r.Planet
		if _, dup := seen[key]; dup {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
		if _, exists := s.data[r.ChartID][r.Planet]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for _, r := range records {
		if s.data[r.ChartID] == nil {
			s.data[r.ChartID] = make(map[string]*domain.StrengthRecord)
		}
		recordCopy := *r
		s.data[r.ChartID][r.Planet] = &recordCopy
	}
	return nil
}

// GetByChartID retrieves all reports of a chart ordered by planet.
func (s *StrengthStore) GetByChartID(_ context.Context, chartID string) ([]*domain.StrengthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StrengthRecord
	for _, r := range s.data[chartID] {
		recordCopy := *r
		result = append(result, &recordCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Planet < result[j].Planet
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.StrengthStore = (*StrengthStore)(nil)

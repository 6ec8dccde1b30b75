package memory

import (
	"context"
	"sort"
	"sync"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// ChartStore is an in-memory implementation of storage.ChartStore.
type ChartStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ChartRecord // keyed by chart_id
}

// NewChartStore creates a new in-memory chart store.
func NewChartStore() *ChartStore {
	return &ChartStore{
		data: make(map[string]*domain.ChartRecord),
	}
}

// Insert adds a new chart. Returns ErrDuplicateKey if chart_id exists.
func (s *ChartStore) Insert(_ context.Context, c *domain.ChartRecord) error {
	if c == nil || c.ChartID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ChartID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	chartCopy := *c
	s.data[c.ChartID] = &chartCopy
	return nil
}

// GetByID retrieves a chart by its ID. Returns ErrNotFound if not exists.
func (s *ChartStore) GetByID(_ context.Context, chartID string) (*domain.ChartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[chartID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	chartCopy := *c
	return &chartCopy, nil
}

// GetByLabel retrieves all charts with a label.
func (s *ChartStore) GetByLabel(_ context.Context, label string) ([]*domain.ChartRecord, error) {
	return s.filter(func(c *domain.ChartRecord) bool { return c.Label == label }), nil
}

// List retrieves all charts.
func (s *ChartStore) List(_ context.Context) ([]*domain.ChartRecord, error) {
	return s.filter(func(*domain.ChartRecord) bool { return true }), nil
}

func (s *ChartStore) filter(keep func(*domain.ChartRecord) bool) []*domain.ChartRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ChartRecord
	for _, c := range s.data {
		if keep(c) {
			chartCopy := *c
			result = append(result, &chartCopy)
		}
	}

	// Sort by created_at ASC, chart_id ASC
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ChartID < result[j].ChartID
	})
	return result
}

// Verify interface compliance at compile time.
var _ storage.ChartStore = (*ChartStore)(nil)

package memory

import (
	"context"
	"errors"
	"testing"

	"jyotish-lab/internal/dasha"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

const birthJD = 2451545.0

func TestDashaPeriodStore_RoundTripGeneratedTree(t *testing.T) {
	ctx := context.Background()
	store := NewDashaPeriodStore()

	periods := dasha.Generate(dasha.Vimshottari(), 181.0, birthJD)
	records := domain.FlattenDashaPeriods("chart-1", periods)
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetByChartID(ctx, "chart-1", domain.DashaVimshottari)
	if err != nil {
		t.Fatalf("GetByChartID failed: %v", err)
	}
	if len(all) != len(records) {
		t.Errorf("expected %d records, got %d", len(records), len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].StartJD < all[i-1].StartJD {
			t.Fatalf("records not ordered by start at %d", i)
		}
	}

	at := birthJD + 10*dasha.GregorianYearDays
	active, err := store.GetActive(ctx, "chart-1", domain.DashaVimshottari, at)
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	chain := dasha.ActiveChain(periods, at)
	if len(active) != len(chain) {
		t.Fatalf("expected %d active periods, got %d", len(chain), len(active))
	}
	for i, p := range chain {
		if active[i].Ruler != p.Ruler || active[i].Level != p.Level {
			t.Errorf("level %d: got %s, want %s", i+1, active[i].Ruler, p.Ruler)
		}
	}
	if active[2].Path != active[0].Ruler+"/"+active[1].Ruler+"/"+active[2].Ruler {
		t.Errorf("unexpected path %q", active[2].Path)
	}
}

func TestDashaPeriodStore_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := NewDashaPeriodStore()

	rec := &domain.DashaPeriodRecord{
		ChartID: "c", System: domain.DashaYogini, Path: "Mangala", Level: 1,
		Ruler: "Mangala", StartJD: birthJD, EndJD: birthJD + 365,
	}
	if err := store.InsertBulk(ctx, []*domain.DashaPeriodRecord{rec}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	if err := store.InsertBulk(ctx, []*domain.DashaPeriodRecord{rec}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	bad := *rec
	bad.Path = "other"
	bad.EndJD = bad.StartJD - 1
	if err := store.InsertBulk(ctx, []*domain.DashaPeriodRecord{&bad}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDashaPeriodStore_SystemsAreSeparate(t *testing.T) {
	ctx := context.Background()
	store := NewDashaPeriodStore()

	yog := domain.FlattenDashaPeriods("c", dasha.Generate(dasha.Yogini(), 10, birthJD))
	if err := store.InsertBulk(ctx, yog); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	vim, _ := store.GetByChartID(ctx, "c", domain.DashaVimshottari)
	if len(vim) != 0 {
		t.Errorf("expected no Vimshottari periods, got %d", len(vim))
	}
	active, _ := store.GetActive(ctx, "c", domain.DashaYogini, birthJD)
	if len(active) == 0 || active[0].Level != 1 {
		t.Errorf("expected an active Yogini chain at birth, got %+v", active)
	}
}

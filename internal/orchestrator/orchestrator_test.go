package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris/stub"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/storage"
	"jyotish-lab/internal/storage/memory"
)

var delhi = domain.BirthInput{
	Label:     "delhi",
	Year:      2000,
	Month:     1,
	Day:       1,
	Hour:      12,
	Latitude:  28.6,
	Longitude: 77.2,
}

func testProvider() *stub.Provider {
	jd := delhi.JulianDay()
	p := stub.NewProvider()
	p.SetAscendant(15)
	p.Set(domain.BodyIDSun, 40, 1, 15).
		Set(domain.BodyIDMoon, 181, 13, -5).
		Set(domain.BodyIDMars, 100, 0.5, 20).
		Set(domain.BodyIDMercury, 55, 1.2, 18).
		Set(domain.BodyIDJupiter, 250, 0.1, -20).
		Set(domain.BodyIDVenus, 70, 1.1, 22).
		Set(domain.BodyIDSaturn, 300, -0.03, -18).
		Set(domain.BodyIDRahu, 10, -0.05, 0)
	p.Rise.Sunrise = jd - 0.2
	p.Rise.Sunset = jd + 0.3
	return p
}

type testStores struct {
	charts   *memory.ChartStore
	strength *memory.StrengthStore
	dashas   *memory.DashaPeriodStore
}

func createTestStores() testStores {
	return testStores{
		charts:   memory.NewChartStore(),
		strength: memory.NewStrengthStore(),
		dashas:   memory.NewDashaPeriodStore(),
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestOrchestrator_Run_Empty(t *testing.T) {
	stores := createTestStores()
	orch := New(Options{
		Provider:      testProvider(),
		Config:        domain.DefaultConfiguration(),
		ChartStore:    stores.charts,
		StrengthStore: stores.strength,
		DashaStore:    stores.dashas,
	})

	result, err := orch.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.ChartsComputed != 0 || result.ChartsStored != 0 || len(result.Outcomes) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestOrchestrator_Run_PersistsAndDedups(t *testing.T) {
	ctx := context.Background()
	stores := createTestStores()
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics("test", reg)

	orch := New(Options{
		Provider:      testProvider(),
		Config:        domain.DefaultConfiguration(),
		ChartStore:    stores.charts,
		StrengthStore: stores.strength,
		DashaStore:    stores.dashas,
		Metrics:       m,
		Clock:         fixedClock,
	})

	mumbai := delhi
	mumbai.Label = "mumbai"
	mumbai.Latitude, mumbai.Longitude = 19.07, 72.88

	again := delhi
	again.Label = "delhi again"

	invalid := delhi
	invalid.Month = 13

	result, err := orch.Run(ctx, []domain.BirthInput{delhi, mumbai, again, invalid})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ChartsComputed != 3 {
		t.Errorf("expected 3 computed, got %d", result.ChartsComputed)
	}
	if result.ChartsStored != 2 {
		t.Errorf("expected 2 stored, got %d", result.ChartsStored)
	}
	if result.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", result.Duplicates)
	}
	if result.StrengthRecords != 14 {
		t.Errorf("expected 7 strength records per chart, got %d", result.StrengthRecords)
	}
	if result.DashaPeriods == 0 {
		t.Error("expected dasha periods to be stored")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "chart 3") {
		t.Errorf("expected one error for the invalid request, got %v", result.Errors)
	}

	wantStatus := []string{StatusStored, StatusStored, StatusDuplicate, StatusFailed}
	for i, o := range result.Outcomes {
		if o.Status != wantStatus[i] {
			t.Errorf("outcome %d: status %s, want %s", i, o.Status, wantStatus[i])
		}
	}
	if result.Outcomes[0].ChartID != result.Outcomes[2].ChartID {
		t.Error("same birth data should map to the same chart id")
	}
	if !errors.Is(result.Outcomes[3].Err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", result.Outcomes[3].Err)
	}

	// Stored rows
	charts, err := stores.charts.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(charts) != 2 {
		t.Fatalf("expected 2 stored charts, got %d", len(charts))
	}
	first := result.Outcomes[0].ChartID
	rec, err := stores.charts.GetByID(ctx, first)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rec.MoonLong != 181 || rec.Ascendant != 15 || rec.CreatedAt != fixedClock().UnixMilli() {
		t.Errorf("unexpected chart record: %+v", rec)
	}

	active, err := stores.dashas.GetActive(ctx, first, domain.DashaVimshottari, delhi.JulianDay())
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if len(active) == 0 || active[0].Ruler != domain.Mars {
		t.Errorf("expected Mars major period at birth, got %+v", active)
	}

	// Metrics
	if got := testutil.ToFloat64(m.ChartsStored); got != 2 {
		t.Errorf("charts stored metric = %v", got)
	}
	if got := testutil.ToFloat64(m.ChartsComputed.WithLabelValues("NATAL", "success")); got != 3 {
		t.Errorf("success metric = %v", got)
	}
	if got := testutil.ToFloat64(m.ChartsComputed.WithLabelValues("NATAL", "failed")); got != 1 {
		t.Errorf("failed metric = %v", got)
	}
	if got := testutil.ToFloat64(m.StageOutcomes.WithLabelValues("astronomy", "ok")); got != 3 {
		t.Errorf("astronomy stage metric = %v", got)
	}
}

func TestOrchestrator_Run_ComputeOnlyKeepsReports(t *testing.T) {
	orch := New(Options{
		Provider:    testProvider(),
		Config:      domain.DefaultConfiguration(),
		KeepReports: true,
		Clock:       fixedClock,
	})

	result, err := orch.Run(context.Background(), []domain.BirthInput{delhi})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	o := result.Outcomes[0]
	if o.Status != StatusComputed {
		t.Errorf("expected computed status, got %s", o.Status)
	}
	if o.Report == nil || o.Report.ChartID != o.ChartID {
		t.Fatal("expected report carrying the chart id")
	}
	if o.Report.AsOf != domain.JulianDayFromTime(fixedClock()) {
		t.Errorf("report as-of should follow the clock, got %v", o.Report.AsOf)
	}
	if result.ChartsStored != 0 {
		t.Error("nothing should be stored without stores")
	}
}

type failingChartStore struct {
	*memory.ChartStore
}

func (failingChartStore) Insert(context.Context, *domain.ChartRecord) error {
	return errors.New("connection reset")
}

func TestOrchestrator_Run_StoreErrorContinues(t *testing.T) {
	stores := createTestStores()
	orch := New(Options{
		Provider:      testProvider(),
		Config:        domain.DefaultConfiguration(),
		ChartStore:    failingChartStore{stores.charts},
		StrengthStore: stores.strength,
		DashaStore:    stores.dashas,
	})

	mumbai := delhi
	mumbai.Latitude = 19.07

	result, err := orch.Run(context.Background(), []domain.BirthInput{delhi, mumbai})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected both persists to fail, got %v", result.Errors)
	}
	if result.Outcomes[1].Status != StatusFailed || !strings.Contains(result.Errors[1], "connection reset") {
		t.Errorf("unexpected outcome: %+v", result.Outcomes[1])
	}
	if result.ChartsComputed != 2 {
		t.Errorf("charts are computed before persistence, got %d", result.ChartsComputed)
	}
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(Options{Provider: testProvider(), Config: domain.DefaultConfiguration()})
	result, err := orch.Run(ctx, []domain.BirthInput{delhi})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Outcomes) != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestStrengthRecords_SortedByPlanet(t *testing.T) {
	recs := StrengthRecords("c", map[string]domain.StrengthReport{
		domain.Venus: {Planet: domain.Venus},
		domain.Mars:  {Planet: domain.Mars},
		domain.Sun:   {Planet: domain.Sun},
	})
	got := []string{recs[0].Planet, recs[1].Planet, recs[2].Planet}
	want := []string{domain.Mars, domain.Sun, domain.Venus}
	for i := range want {
		if got[i] != want[i] || recs[i].ChartID != "c" {
			t.Fatalf("records = %v, want %v", got, want)
		}
	}
}

var _ storage.ChartStore = failingChartStore{}

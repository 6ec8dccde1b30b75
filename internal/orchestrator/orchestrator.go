// Package orchestrator runs charts in batch and persists their results.
// Flow per request: pipeline run → chart record → strength → dasha timeline
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/idhash"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/pipeline"
	"jyotish-lab/internal/storage"
)

// Outcome statuses.
const (
	StatusStored    = "stored"
	StatusComputed  = "computed" // no stores configured
	StatusDuplicate = "duplicate"
	StatusFailed    = "failed"
)

// Orchestrator computes a batch of charts, one pipeline run per request.
type Orchestrator struct {
	runner *pipeline.Runner

	// Stores; all nil means compute only
	chartStore    storage.ChartStore
	strengthStore storage.StrengthStore
	dashaStore    storage.DashaPeriodStore

	config      domain.Configuration
	chartType   domain.ChartType
	keepReports bool

	metrics *observability.Metrics
	logger  *slog.Logger
	clock   func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Provider ephemeris.Provider
	Config   domain.Configuration

	// Optional stores
	ChartStore    storage.ChartStore
	StrengthStore storage.StrengthStore
	DashaStore    storage.DashaPeriodStore

	// Options
	ChartType   domain.ChartType // defaults to NATAL
	KeepReports bool             // attach a rendered report to every outcome
	Metrics     *observability.Metrics
	Logger      *slog.Logger
	Clock       func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		chartStore:    opts.ChartStore,
		strengthStore: opts.StrengthStore,
		dashaStore:    opts.DashaStore,
		config:        opts.Config.Normalize(),
		chartType:     opts.ChartType,
		keepReports:   opts.KeepReports,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		clock:         opts.Clock,
	}
	if o.chartType == "" {
		o.chartType = domain.ChartNatal
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.clock == nil {
		o.clock = func() time.Time { return time.Now().UTC() }
	}

	o.runner = pipeline.NewRunner(opts.Provider).
		WithChartType(o.chartType).
		WithClock(o.clock).
		WithLogger(o.logger)
	if o.metrics != nil {
		o.runner.WithObserver(o.metrics)
	}
	return o
}

// ChartOutcome is the result of one request.
type ChartOutcome struct {
	Index   int
	ChartID string
	Label   string
	Status  string
	Summary *pipeline.RunSummary
	Report  *pipeline.Report
	Err     error
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	ChartsComputed  int
	ChartsStored    int
	Duplicates      int
	StrengthRecords int
	DashaPeriods    int
	Outcomes        []ChartOutcome
	Errors          []string
}

// Run computes every input in order. A failing request is recorded and
// the batch continues; only cancellation stops it early, returning the
// partial result alongside the context error.
func (o *Orchestrator) Run(ctx context.Context, inputs []domain.BirthInput) (*RunResult, error) {
	result := &RunResult{}

	o.logger.Info("batch started", "charts", len(inputs), "chart_type", o.chartType)

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("batch cancelled after %d of %d charts: %w", i, len(inputs), err)
		}

		outcome := o.runOne(ctx, i, in, result)
		if outcome.Err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("chart %d (%s): %v", i, outcome.Label, outcome.Err))
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	o.logger.Info("batch completed",
		"computed", result.ChartsComputed,
		"stored", result.ChartsStored,
		"duplicates", result.Duplicates,
		"errors", len(result.Errors))

	return result, nil
}

func (o *Orchestrator) runOne(ctx context.Context, index int, in domain.BirthInput, result *RunResult) ChartOutcome {
	outcome := ChartOutcome{Index: index, Label: in.Label}
	start := o.clock()

	cc, summary, err := o.runner.Run(ctx, in, o.config)
	outcome.Summary = summary
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		o.recordChart(StatusFailed, start)
		return outcome
	}
	result.ChartsComputed++

	outcome.ChartID = idhash.ComputeChartID(in, cc.Config)
	if o.keepReports {
		outcome.Report = pipeline.BuildReport(cc, summary, domain.JulianDayFromTime(o.clock()))
		outcome.Report.ChartID = outcome.ChartID
	}

	if o.chartStore == nil {
		outcome.Status = StatusComputed
		o.recordChart("success", start)
		return outcome
	}

	if err := o.persist(ctx, outcome.ChartID, cc, result); err != nil {
		// Skip duplicate key errors (already stored)
		if errors.Is(err, storage.ErrDuplicateKey) {
			result.Duplicates++
			outcome.Status = StatusDuplicate
			o.logger.Debug("chart already stored", "chart_id", outcome.ChartID)
			o.recordChart("success", start)
			return outcome
		}
		outcome.Status = StatusFailed
		outcome.Err = fmt.Errorf("persist %s: %w", outcome.ChartID, err)
		o.recordChart(StatusFailed, start)
		return outcome
	}

	result.ChartsStored++
	outcome.Status = StatusStored
	o.recordChart("success", start)
	return outcome
}

// persist writes the chart first so a rerun of the same request stops at
// ErrDuplicateKey before touching the dependent tables.
func (o *Orchestrator) persist(ctx context.Context, chartID string, cc *pipeline.ChartContext, result *RunResult) error {
	rec := &domain.ChartRecord{
		ChartID:     chartID,
		Label:       cc.Input.Label,
		BirthJD:     cc.JD,
		Latitude:    cc.Input.Latitude,
		Longitude:   cc.Input.Longitude,
		Ayanamsa:    cc.Config.Ayanamsa,
		HouseSystem: cc.Config.HouseSystem,
		Ascendant:   cc.Ascendant,
		CreatedAt:   o.clock().UnixMilli(),
	}
	if moon, ok := cc.Bodies[domain.Moon]; ok {
		rec.MoonLong = moon.Longitude
	}

	if err := o.timed("postgres", "insert_chart", func() error { return o.chartStore.Insert(ctx, rec) }); err != nil {
		return err
	}

	if strength, ok := cc.Strength(); ok && o.strengthStore != nil {
		records := StrengthRecords(chartID, strength)
		if err := o.timed("postgres", "insert_strength", func() error { return o.strengthStore.InsertBulk(ctx, records) }); err != nil {
			return fmt.Errorf("strength: %w", err)
		}
		result.StrengthRecords += len(records)
	}

	if dashas, ok := cc.Dashas(); ok && o.dashaStore != nil {
		systems := make([]domain.DashaSystem, 0, len(dashas))
		for sys := range dashas {
			systems = append(systems, sys)
		}
		sort.Slice(systems, func(i, j int) bool { return systems[i] < systems[j] })

		for _, sys := range systems {
			periods := domain.FlattenDashaPeriods(chartID, dashas[sys])
			err := o.timed("clickhouse", "insert_dasha", func() error { return o.dashaStore.InsertBulk(ctx, periods) })
			if err != nil {
				// Timeline already present from an earlier partial run
				if errors.Is(err, storage.ErrDuplicateKey) {
					continue
				}
				return fmt.Errorf("dasha %s: %w", sys, err)
			}
			result.DashaPeriods += len(periods)
			if o.metrics != nil {
				o.metrics.DashaPeriodsStored.Add(float64(len(periods)))
			}
		}
	}

	if o.metrics != nil {
		o.metrics.ChartsStored.Inc()
	}
	return nil
}

// StrengthRecords converts strength reports to records ordered by planet.
func StrengthRecords(chartID string, reports map[string]domain.StrengthReport) []*domain.StrengthRecord {
	out := make([]*domain.StrengthRecord, 0, len(reports))
	for _, r := range reports {
		out = append(out, &domain.StrengthRecord{ChartID: chartID, StrengthReport: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Planet < out[j].Planet })
	return out
}

func (o *Orchestrator) timed(database, operation string, fn func() error) error {
	start := o.clock()
	err := fn()
	if o.metrics != nil {
		o.metrics.RecordDBQuery(database, operation, o.clock().Sub(start).Seconds(), err)
	}
	return err
}

func (o *Orchestrator) recordChart(status string, start time.Time) {
	if o.metrics == nil {
		return
	}
	now := o.clock()
	o.metrics.RecordChart(string(o.chartType), status, now.Sub(start), now)
}

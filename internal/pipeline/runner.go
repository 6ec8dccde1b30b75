package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/maitri"
)

// Observer receives the outcome of every executed stage.
type Observer interface {
	ObserveStage(stage string, status Status, d time.Duration)
}

// RunSummary records what happened during a run.
type RunSummary struct {
	ChartType  domain.ChartType `json:"chart_type" yaml:"chart_type"`
	StartedAt  time.Time        `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time        `json:"finished_at" yaml:"finished_at"`
	Stages     []StageResult    `json:"stages" yaml:"stages"`
}

// Result returns the outcome of a named stage.
func (s *RunSummary) Result(stage string) (StageResult, bool) {
	for _, r := range s.Stages {
		if r.Stage == stage {
			return r, true
		}
	}
	return StageResult{}, false
}

// Runner executes chart pipelines against one ephemeris provider.
// A Runner is safe for concurrent use; each run owns its own context.
type Runner struct {
	provider  ephemeris.Provider
	relations *maitri.Engine
	chartType domain.ChartType
	clock     func() time.Time
	observer  Observer
	logger    *slog.Logger
}

// NewRunner creates a runner for natal charts.
func NewRunner(provider ephemeris.Provider) *Runner {
	return &Runner{
		provider:  provider,
		relations: maitri.NewDefault(),
		chartType: domain.ChartNatal,
		clock:     func() time.Time { return time.Now().UTC() },
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithClock sets a custom clock function for deterministic output.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// WithObserver sets a stage observer.
func (r *Runner) WithObserver(o Observer) *Runner {
	r.observer = o
	return r
}

// WithLogger sets the structured logger.
func (r *Runner) WithLogger(l *slog.Logger) *Runner {
	if l != nil {
		r.logger = l
	}
	return r
}

// WithChartType selects the stage set.
func (r *Runner) WithChartType(t domain.ChartType) *Runner {
	r.chartType = t
	return r
}

// WithRelations replaces the relationship tables used by all stages.
func (r *Runner) WithRelations(rel *maitri.Engine) *Runner {
	if rel != nil {
		r.relations = rel
	}
	return r
}

// Run validates input, normalizes cfg and executes every stage in order.
// Skipped and failed stages are recorded in the summary; only a fatal
// stage result aborts the run, in which case the partial context is
// returned with the error.
func (r *Runner) Run(ctx context.Context, input domain.BirthInput, cfg domain.Configuration) (*ChartContext, *RunSummary, error) {
	if err := input.Validate(); err != nil {
		return nil, nil, err
	}
	cfg = cfg.Normalize()

	cc := NewChartContext(input, cfg)
	summary := &RunSummary{ChartType: r.chartType, StartedAt: r.clock()}
	stages := Build(r.chartType, cfg, Dependencies{
		Provider:  r.provider,
		Relations: r.relations,
		Clock:     r.clock,
	})

	log := r.logger.With("label", input.Label, "jd", cc.JD)
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = r.clock()
			return cc, summary, fmt.Errorf("run cancelled before %s: %w", stage.Name(), err)
		}

		began := r.clock()
		res := stage.Execute(ctx, cc)
		res.Stage = stage.Name()
		res.State = res.Status.String()
		res.Duration = r.clock().Sub(began)
		summary.Stages = append(summary.Stages, res)

		if r.observer != nil {
			r.observer.ObserveStage(res.Stage, res.Status, res.Duration)
		}

		switch res.Status {
		case StatusOK:
			log.Debug("stage complete", "stage", res.Stage, "note", res.Reason)
		case StatusSkipped:
			log.Info("stage skipped", "stage", res.Stage, "reason", res.Reason)
		case StatusFailed:
			log.Warn("stage failed", "stage", res.Stage, "error", res.Err)
		case StatusFatal:
			log.Error("stage fatal", "stage", res.Stage, "error", res.Err)
			summary.FinishedAt = r.clock()
			err := res.Err
			var ae *AstronomyError
			if !errors.As(err, &ae) {
				err = fmt.Errorf("stage %s: %w", res.Stage, err)
			}
			return cc, summary, err
		}
	}

	summary.FinishedAt = r.clock()
	return cc, summary, nil
}

package pipeline

import (
	"context"
	"time"
)

// Status is the outcome of one stage.
type Status int

const (
	// StatusOK means the stage wrote its results.
	StatusOK Status = iota
	// StatusSkipped means a prerequisite was missing; nothing was written.
	StatusSkipped
	// StatusFailed means the stage errored; later stages still run.
	StatusFailed
	// StatusFatal aborts the run.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// StageResult is the tagged outcome of executing a stage.
type StageResult struct {
	Stage    string        `json:"stage" yaml:"stage"`
	Status   Status        `json:"-" yaml:"-"`
	State    string        `json:"status" yaml:"status"`
	Reason   string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Err      error         `json:"-" yaml:"-"`
	Duration time.Duration `json:"-" yaml:"-"`
}

// OK is a successful result.
func OK() StageResult { return StageResult{Status: StatusOK} }

// Skip is a soft failure: a prerequisite was absent.
func Skip(reason string) StageResult {
	return StageResult{Status: StatusSkipped, Reason: reason}
}

// Fail records a non-fatal error.
func Fail(err error) StageResult {
	return StageResult{Status: StatusFailed, Reason: err.Error(), Err: err}
}

// Fatal records an error that aborts the run.
func Fatal(err error) StageResult {
	return StageResult{Status: StatusFatal, Reason: err.Error(), Err: err}
}

// Stage is one step of the chart pipeline.
type Stage interface {
	Name() string
	Execute(ctx context.Context, cc *ChartContext) StageResult
}

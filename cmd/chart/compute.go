package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/idhash"
	"jyotish-lab/internal/pipeline"
	"jyotish-lab/internal/reporting"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute one chart and print its report",
	Example: `  chart compute --date 1990-04-15T06:30 --utc-offset +05:30 --lat 28.61 --lon 77.21
  chart compute --date 2024-01-01T00:00 --chart-type transit --format yaml`,
	RunE: runCompute,
}

var dashaCmd = &cobra.Command{
	Use:   "dasha",
	Short: "Print the dasha timeline of a birth moment",
	RunE:  runDasha,
}

func init() {
	addBirthFlags(computeCmd)
	computeCmd.Flags().String("format", "markdown", "markdown, json, yaml or csv")
	computeCmd.Flags().String("chart-type", "natal", "natal or transit")
	computeCmd.Flags().String("as-of", "", "date (YYYY-MM-DD) for active periods; default today")
	computeCmd.Flags().Bool("transits", false, "include the transit forecast")
	computeCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")

	addBirthFlags(dashaCmd)
	dashaCmd.Flags().String("format", "csv", "csv, markdown, json or yaml")
	dashaCmd.Flags().String("as-of", "", "date (YYYY-MM-DD) for active periods; default today")

	rootCmd.AddCommand(computeCmd, dashaCmd)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	in, err := birthFromFlags(cmd)
	if err != nil {
		return err
	}

	conf := e.cfg.Configuration()
	if v, _ := cmd.Flags().GetBool("transits"); v {
		conf.Sections.Transits = true
	}

	chartType := domain.ChartNatal
	if ct, _ := cmd.Flags().GetString("chart-type"); strings.EqualFold(ct, "transit") {
		chartType = domain.ChartTransit
	}

	return computeAndRender(cmd, e, in, conf, chartType)
}

func runDasha(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	in, err := birthFromFlags(cmd)
	if err != nil {
		return err
	}

	conf := e.cfg.Configuration()
	conf.Sections = domain.Sections{Dashas: true}

	return computeAndRender(cmd, e, in, conf, domain.ChartNatal)
}

func computeAndRender(cmd *cobra.Command, e *env, in domain.BirthInput, conf domain.Configuration, chartType domain.ChartType) error {
	format, err := reporting.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(mustString(cmd, "as-of"), time.Now().UTC())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(e.logger)
	defer cancel()
	e.serveMetrics(ctx)

	provider, closer, err := e.newProvider(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	start := time.Now()
	runner := pipeline.NewRunner(provider).
		WithChartType(chartType).
		WithLogger(e.logger).
		WithObserver(e.metrics)

	cc, summary, runErr := runner.Run(ctx, in, conf)
	status := "success"
	if runErr != nil {
		status = "failed"
	}
	e.metrics.RecordChart(string(chartType), status, time.Since(start), time.Now())
	if cc == nil {
		return runErr
	}

	report := pipeline.BuildReport(cc, summary, asOf)
	report.ChartID = idhash.ComputeChartID(in, cc.Config)

	var w io.Writer = cmd.OutOrStdout()
	if path := mustString(cmd, "output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := reporting.Render(w, report, format); err != nil {
		return err
	}
	return runErr
}

// mustString reads a string flag that may not be defined on every command.
func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

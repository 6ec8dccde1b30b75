package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/orchestrator"
	"jyotish-lab/internal/reporting"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Compute and store every chart listed in a YAML or TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().Bool("write-reports", false, "write a Markdown report per chart into output_dir")
	batchCmd.Flags().String("backend", "", "storage backend: memory or db")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if b := mustString(cmd, "backend"); b != "" {
		e.cfg.Storage.Backend = b
	}
	writeReports, _ := cmd.Flags().GetBool("write-reports")

	inputs, err := loadBatch(args[0])
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

	st, err := e.openStores(ctx)
	if err != nil {
		return err
	}
	defer st.close()

	orch := orchestrator.New(orchestrator.Options{
		Provider:      provider,
		Config:        e.cfg.Configuration(),
		ChartStore:    st.charts,
		StrengthStore: st.strength,
		DashaStore:    st.dashas,
		KeepReports:   writeReports,
		Metrics:       e.metrics,
		Logger:        e.logger,
	})

	result, runErr := orch.Run(ctx, inputs)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch completed:\n")
	fmt.Fprintf(out, "  Computed: %d\n", result.ChartsComputed)
	fmt.Fprintf(out, "  Stored: %d\n", result.ChartsStored)
	fmt.Fprintf(out, "  Duplicates: %d\n", result.Duplicates)
	fmt.Fprintf(out, "  Strength records: %d\n", result.StrengthRecords)
	fmt.Fprintf(out, "  Dasha periods: %d\n", result.DashaPeriods)
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "  Errors: %d\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "    - %s\n", msg)
		}
	}

	if writeReports {
		if err := writeBatchReports(e.cfg.OutputDir, result); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Reports: %s\n", e.cfg.OutputDir)
	}

	if runErr != nil {
		return runErr
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d of %d charts failed", len(result.Errors), len(inputs))
	}
	return nil
}

func writeBatchReports(dir string, result *orchestrator.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, o := range result.Outcomes {
		if o.Report == nil {
			continue
		}
		name := o.ChartID
		if o.Label != "" {
			name = fileSafe(o.Label) + "-" + o.ChartID[:8]
		}
		path := filepath.Join(dir, name+".md")
		if err := os.WriteFile(path, []byte(reporting.RenderMarkdown(o.Report)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

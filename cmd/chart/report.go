package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/reporting"
)

var reportCmd = &cobra.Command{
	Use:   "report <chart-id>",
	Short: "Summarize a stored chart from the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().String("as-of", "", "date (YYYY-MM-DD) for active periods; default today")
	reportCmd.Flags().String("format", "markdown", "markdown or yaml")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if e.cfg.Storage.Backend != "db" {
		return fmt.Errorf("report reads stored charts; set storage.backend to db")
	}
	asOf, err := parseAsOf(mustString(cmd, "as-of"), time.Now().UTC())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(e.logger)
	defer cancel()

	st, err := e.openStores(ctx)
	if err != nil {
		return err
	}
	defer st.close()

	summary, err := reporting.NewGenerator(st.charts, st.strength, st.dashas).Generate(ctx, args[0], asOf)
	if err != nil {
		return err
	}

	switch format := mustString(cmd, "format"); format {
	case "yaml", "yml":
		return reporting.RenderYAML(cmd.OutOrStdout(), summary)
	case "markdown", "md":
		_, err = fmt.Fprint(cmd.OutOrStdout(), reporting.RenderSummaryMarkdown(summary))
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

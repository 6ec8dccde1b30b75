package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/storage/migrations"
	"jyotish-lab/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations to PostgreSQL and ClickHouse",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("skip-postgres", false, "do not migrate PostgreSQL")
	migrateCmd.Flags().Bool("skip-clickhouse", false, "do not migrate ClickHouse")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	skipPG, _ := cmd.Flags().GetBool("skip-postgres")
	skipCH, _ := cmd.Flags().GetBool("skip-clickhouse")

	ctx, cancel := signalContext(e.logger)
	defer cancel()

	out := cmd.OutOrStdout()

	if !skipPG {
		pool, err := postgres.NewPool(ctx, e.cfg.Storage.PostgresDSN, postgres.PoolOptions{MaxConns: 1, MaxConnLifetime: time.Minute})
		if err != nil {
			return err
		}
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		pool.Close()
		if err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
		fmt.Fprintf(out, "PostgreSQL: %d migration(s) applied\n", len(applied))
		for _, v := range applied {
			fmt.Fprintf(out, "  - %s\n", v)
		}
	}

	if !skipCH {
		conn, err := migrations.RunClickhouseMigrations(ctx, e.cfg.Storage.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("clickhouse migrations: %w", err)
		}
		_ = conn.Close()
		fmt.Fprintln(out, "ClickHouse: schema up to date")
	}

	return nil
}

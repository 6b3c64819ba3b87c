package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gims/internal/config"
	"gims/internal/domain/metrics"
	"gims/internal/infrastructure/storage/postgres"
	"gims/internal/infrastructure/storage/postgres/metrics_repo"
)

// metrics-refresh recomputes lead-time metrics once and exits. The same
// job runs nightly inside the server; this command exists for manual
// refreshes and for external schedulers.
var metricsRefreshCmd = &cobra.Command{
	Use:   "metrics-refresh",
	Short: "Recompute lead-time prediction metrics for all NAC codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		txManager := postgres.NewTxManager(pool)
		service := metrics.NewService(metrics_repo.NewMetricsRepo(txManager))

		refreshed, err := service.RefreshAll(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("recomputed metrics for %d NAC codes\n", refreshed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsRefreshCmd)
}

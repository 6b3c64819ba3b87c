package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gims/internal/config"
	"gims/internal/domain/auth"
	"gims/internal/domain/metrics"
	"gims/internal/infrastructure/files"
	v1 "gims/internal/infrastructure/http/v1"
	"gims/internal/infrastructure/scheduler"
	"gims/internal/infrastructure/storage/postgres"
	"gims/internal/infrastructure/storage/postgres/audit_repo"
	"gims/internal/infrastructure/storage/postgres/auth_repo"
	"gims/internal/infrastructure/storage/postgres/metrics_repo"
	"gims/pkg/logger"
	"gims/pkg/numerator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()
	log.Info("starting gims server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Auth ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	// --- Supporting services ---
	numeratorService := numerator.New(pool.Unwrap())

	auditRepo, err := audit_repo.NewAuditRepo(txManager)
	if err != nil {
		return fmt.Errorf("initialize audit store: %w", err)
	}

	fileStore, err := files.NewStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("initialize file store: %w", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		TxManager:    txManager,
		Logger:       log,
		JWTValidator: jwtService,
		AuthService:  authService,
		Numerator:    numeratorService,
		Auditor:      auditRepo,
		FileStore:    fileStore,
	})

	// --- Background jobs ---
	var sched *scheduler.Scheduler
	if cfg.MetricsRefreshSchedule != "" {
		metricsService := metrics.NewService(metrics_repo.NewMetricsRepo(txManager))

		sched = scheduler.New(log)
		err := sched.AddJob("metrics-refresh", cfg.MetricsRefreshSchedule, func(ctx context.Context) error {
			refreshed, err := metricsService.RefreshAll(ctx)
			if err != nil {
				return err
			}
			log.Infow("lead-time metrics recomputed", "nac_codes", refreshed)
			return nil
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		log.Infow("metrics refresh scheduled", "schedule", cfg.MetricsRefreshSchedule)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// Package main is the entry point for the assetbook API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"assetbook/internal/domain/assets"
	"assetbook/internal/domain/closing"
	"assetbook/internal/domain/depreciation"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/domain/periods"
	"assetbook/internal/domain/schedule"
	v1 "assetbook/internal/infrastructure/http/v1"
	"assetbook/internal/infrastructure/storage/postgres"
	"assetbook/internal/infrastructure/storage/postgres/asset_repo"
	"assetbook/internal/infrastructure/storage/postgres/ledger_repo"
	"assetbook/internal/infrastructure/storage/postgres/period_repo"
	"assetbook/internal/infrastructure/storage/postgres/report_repo"
	"assetbook/migrations"
	"assetbook/pkg/config"
	"assetbook/pkg/database"
	"assetbook/pkg/logger"
	"assetbook/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting assetbook server")

	// --- Schema migrations ---
	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL, migrations.FS); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
		log.Info("schema migrations applied")
	}

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// The numerator issues document numbers inside whatever transaction
	// the calling service has open.
	numbers := numerator.New(txManager.AmbientQuerier())

	// --- Repositories ---
	periodRepo := period_repo.NewPeriodRepo(txManager)
	planningRepo := period_repo.NewPlanningRepo(txManager)
	assetRepo := asset_repo.NewAssetRepo(txManager)
	categoryRepo := asset_repo.NewCategoryRepo(txManager)
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	balanceRepo := ledger_repo.NewBalanceRepo(txManager)
	entryRepo := ledger_repo.NewEntryRepo(txManager)
	scheduleRepo := report_repo.NewScheduleRepo(txManager)

	// --- Services ---
	periodService := periods.NewService(periodRepo, planningRepo, txManager)
	ledgerService := ledger.NewService(
		movementRepo,
		balanceRepo,
		assetRepo,
		periodRepo,
		numbers,
		txManager,
	)
	// Asset creation seeds the opening balance row through the ledger.
	assetService := assets.NewService(
		assetRepo,
		categoryRepo,
		periodRepo,
		ledgerService,
		numbers,
		txManager,
	)
	depreciationService := depreciation.NewService(
		entryRepo,
		balanceRepo,
		assetRepo,
		periodRepo,
		txManager,
	)
	closingService := closing.NewService(
		periodRepo,
		planningRepo,
		balanceRepo,
		depreciationService,
		ledgerService,
		txManager,
	)
	scheduleService := schedule.NewService(scheduleRepo, periodRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:      log,
		Pool:        pool.Unwrap(),
		Periods:     periodService,
		Assets:      assetService,
		Ledger:      ledgerService,
		Deprec:      depreciationService,
		Closing:     closingService,
		Schedule:    scheduleService,
		Development: cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

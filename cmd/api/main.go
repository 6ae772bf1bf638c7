package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"godescribe/adapters/excel"
	"godescribe/adapters/postgres"
	"godescribe/app"
	"godescribe/internal"
	analysis "godescribe/internal/analysis/describe"
	"godescribe/internal/analysis/histogram"
	"godescribe/internal/config"
	"godescribe/internal/errors"
	"godescribe/internal/migration"
	"godescribe/ports"
	"godescribe/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and runs migrations
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)
	logger := internal.DefaultLogger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo ports.ReportRepository
	if appConfig.Database.Enabled() {
		db, err := initDatabase(ctx, appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewReportRepository(db)
		logger.Info("report persistence enabled")
	} else {
		logger.Info("DATABASE_URL not set, reports are not persisted")
	}

	engine := analysis.NewEngine(analysis.Config{
		LabelColumn: appConfig.Describe.LabelColumn,
		Workers:     appConfig.Describe.Workers,
	}, logger)

	service, err := app.NewDescribeService(engine, repo, appConfig.Cache, logger)
	if err != nil {
		log.Fatalf("Failed to create describe service: %v", err)
	}
	defer service.Close()

	server := ui.NewServer(service, ui.Options{
		MaxUploadBytes: appConfig.Server.MaxUploadBytes,
		Histogram: histogram.Config{
			GroupColumn: appConfig.Describe.HistogramGroupColumn,
			Bins:        appConfig.Describe.HistogramBins,
		},
		Reader: excel.DefaultReaderConfig(),
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed: %v", err)
		}
	}
}

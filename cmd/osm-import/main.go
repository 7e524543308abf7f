// cmd/osm-import/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"lbs/internal/adapter/overpass"
	"lbs/internal/adapter/storage"
	"lbs/internal/config"
	"lbs/internal/service/osmingest"
)

func main() {
	areaName := flag.String("area", "", "only ingest areas whose name contains this fragment")
	reset := flag.Bool("reset", false, "delete previously ingested amenities before importing")
	dryRun := flag.Bool("dry-run", false, "report what would be imported without writing")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Interrupt cancels the run between areas
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		logger.Info("shutdown signal received, stopping after current area")
		cancel()
	}()

	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := storage.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	var events osmingest.Publisher
	if cfg.NATS.URL != "" {
		nc, err := initNATS(cfg.NATS)
		if err != nil {
			logger.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer nc.Close()
		events = nc
	}

	client := overpass.NewClient(cfg.Ingest.OverpassURL, cfg.Ingest.FetchTimeout, cfg.Ingest.MaxElements)

	pipeline := osmingest.NewPipeline(
		storage.NewAreaStore(db),
		storage.NewAmenityStore(db),
		client,
		events,
		logger,
		osmingest.Config{
			RequestDelay: cfg.Ingest.RequestDelay,
			SummaryTopic: cfg.Ingest.SummaryTopic,
		},
	)

	summary, err := pipeline.Run(ctx, osmingest.Options{
		AreaName: *areaName,
		Reset:    *reset,
		DryRun:   *dryRun,
	})
	if err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}

	logger.Info("ingestion complete",
		zap.Int("areas", len(summary.Areas)),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed_areas", summary.FailedAreas),
		zap.Bool("dry_run", *dryRun),
	)
	if summary.FailedAreas > 0 {
		os.Exit(1)
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

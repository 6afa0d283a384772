package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/mgreco/oddsedge/internal/alias"
	"github.com/mgreco/oddsedge/internal/config"
	"github.com/mgreco/oddsedge/internal/consumer"
	"github.com/mgreco/oddsedge/internal/dedup"
	"github.com/mgreco/oddsedge/internal/engine"
	"github.com/mgreco/oddsedge/internal/filter"
	"github.com/mgreco/oddsedge/internal/hub"
	"github.com/mgreco/oddsedge/internal/match"
	"github.com/mgreco/oddsedge/internal/normalize"
	"github.com/mgreco/oddsedge/internal/publisher"
	"github.com/mgreco/oddsedge/internal/server"
	"github.com/mgreco/oddsedge/internal/writer"
	"github.com/mgreco/oddsedge/pkg/oddsmath"
)

func main() {
	fmt.Println("=== OddsEdge EV Engine ===")

	configPath := os.Getenv("ODDSEDGE_CONFIG")
	if configPath == "" {
		configPath = "configs/oddsedge.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Config loaded: %s\n", configPath)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	// Connect to Postgres for alert history (optional)
	var alertWriter *writer.AlertWriter
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			fmt.Printf("❌ Failed to open Postgres: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			fmt.Printf("❌ Failed to ping Postgres: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Connected to Postgres")

		alertWriter = writer.NewAlertWriter(db)
	} else {
		fmt.Println("⚠️  No Postgres DSN configured, alert history disabled")
	}

	// Load team alias table
	aliasTable, err := alias.Load(cfg.Engine.AliasTablePath)
	if err != nil {
		fmt.Printf("❌ Failed to load alias table: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Alias table loaded: sports=%v\n", aliasTable.SportKeys())

	// Build the evaluation pipeline
	normalizer := normalize.New(aliasTable, cfg.Engine.FuzzyThreshold)
	matcher := match.New(match.Config{
		SpreadTolerance: cfg.Engine.SpreadTolerance,
		TotalTolerance:  cfg.Engine.TotalTolerance,
	})
	band := oddsmath.EVBand{
		MinPercent: cfg.Engine.EVBandMinPercent,
		MaxPercent: cfg.Engine.EVBandMaxPercent,
	}
	evaluator := engine.New(normalizer, matcher, band)

	streamConsumer := consumer.NewStreamConsumer(redisClient, cfg.Stream.ConsumerID, cfg.Stream.ConsumerGroup)
	snapshotStore := consumer.NewSnapshotStore()
	streamPublisher := publisher.NewStreamPublisher(redisClient, cfg.Stream.AlertStreamPrefix)
	deduplicator := dedup.NewDeduplicator(redisClient, cfg.Alert.DedupTTLMins)
	alertFilter := filter.New(cfg.Alert.MinEVPercent, cfg.MaxSnapshotAge())

	alertHub := hub.NewHub()

	runner := engine.NewRunner(
		streamConsumer,
		snapshotStore,
		evaluator,
		alertFilter,
		deduplicator,
		streamPublisher,
		alertWriter,
		alertHub,
		cfg.Stream.Sports,
		cfg.TickInterval(),
		cfg.MaxSnapshotAge(),
	)

	// Setup graceful shutdown
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go alertHub.Run(runCtx)

	errChan := make(chan error, 1)
	go func() {
		errChan <- runner.Run(runCtx)
	}()

	// HTTP server
	handler := server.NewHandler(runCtx, alertHub, runner, evaluator, alertWriter)
	router := server.NewRouter(handler)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		fmt.Printf("✓ HTTP server listening on %s\n", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("❌ HTTP server error: %v\n", err)
			cancel()
		}
	}()

	fmt.Printf("✓ OddsEdge started: sports=%v min_ev=%.1f%% dedup_ttl=%dm\n",
		cfg.Stream.Sports, cfg.Alert.MinEVPercent, cfg.Alert.DedupTTLMins)

	// Wait for shutdown signal or engine error
	select {
	case sig := <-sigChan:
		fmt.Printf("\n🛑 Received signal: %v\n", sig)
	case err := <-errChan:
		if err != nil {
			fmt.Printf("❌ Engine error: %v\n", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("⚠️  HTTP shutdown error: %v\n", err)
	}

	fmt.Println("✓ Shutdown complete")
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bxt04/studentpipe/internal/broker"
	"github.com/bxt04/studentpipe/internal/config"
	"github.com/bxt04/studentpipe/internal/consumer"
	"github.com/bxt04/studentpipe/internal/db"
	"github.com/bxt04/studentpipe/internal/loader"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
	"github.com/bxt04/studentpipe/internal/server"
	"github.com/bxt04/studentpipe/internal/validator"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	migrationsDir := flag.String("migrations", "migrations", "path to SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if err := db.NewMigrator(pg.Pool).MigrateFromDirectory(*migrationsDir); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	conn, err := broker.Dial(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to broker")
	}
	defer conn.Close()

	topoCh, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open topology channel")
	}
	if err := broker.DeclareTopology(topoCh); err != nil {
		logger.Fatal().Err(err).Msg("Failed to declare broker topology")
	}
	_ = topoCh.Close()

	pub, err := broker.NewPublisher(conn)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create publisher")
	}
	defer pub.Close()

	ldr, err := loader.New(ctx, pg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize loader")
	}

	chain := validator.NewStudentChain(ldr)

	validateStage := consumer.NewStage(
		"validate", broker.QueueRaw, conn, pub,
		consumer.NewValidateHandler(chain, pub),
		cfg.Pipeline.Prefetch, cfg.Pipeline.MaxAttempts,
	)
	loadStage := consumer.NewStage(
		"transform-load", broker.QueueValidated, conn, pub,
		consumer.NewTransformLoadHandler(ldr, pub),
		cfg.Pipeline.Prefetch, cfg.Pipeline.MaxAttempts,
	)
	stages := []*consumer.Stage{validateStage, loadStage}

	for _, stage := range stages {
		if err := stage.Start(ctx); err != nil {
			logger.Fatal().Err(err).Str("stage", stage.Name()).Msg("Failed to start stage")
		}
	}

	ops := server.New(cfg, conn, stages, ldr)
	serverErrs := ops.Start()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-serverErrs:
		logger.Error().Err(err).Msg("Ops server failed")
	}

	// Drain stages before tearing down shared resources so the in-flight
	// message of each stage finishes and gets acknowledged.
	for _, stage := range stages {
		if err := stage.Stop(); err != nil {
			logger.Error().Err(err).Str("stage", stage.Name()).Msg("Failed to stop stage")
		}
	}

	if err := ops.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Ops server shutdown error")
	}

	logger.Info().Msg("Pipeline stopped")
}

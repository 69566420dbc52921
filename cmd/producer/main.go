package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bxt04/studentpipe/internal/broker"
	"github.com/bxt04/studentpipe/internal/config"
	"github.com/bxt04/studentpipe/internal/ingest"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	file := flag.String("file", "", "publish a single CSV file and exit")
	watch := flag.Bool("watch", false, "watch the ingest directory for new files")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console",
	})

	if *file == "" && !*watch {
		logger.Fatal().Msg("Either -file or -watch is required")
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

	producer := ingest.NewProducer(pub)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *file != "" {
		if _, err := producer.PublishFile(ctx, *file); err != nil {
			logger.Fatal().Err(err).Msg("Failed to publish file")
		}
	}

	if *watch {
		watcher := ingest.NewWatcher(cfg.Ingest.InputDir, producer)
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Watcher stopped")
			os.Exit(1)
		}
	}
}

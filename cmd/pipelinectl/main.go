package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bxt04/studentpipe/internal/broker"
	"github.com/bxt04/studentpipe/internal/config"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

const usage = `usage: pipelinectl [-config path] <command>

commands:
  setup    declare the exchange, queues and bindings
  purge    empty all pipeline queues
  delete   delete the exchange and all queues
  depths   print the current depth of each queue
`

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: true,
	})

	conn, err := broker.Dial(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to broker")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open channel")
	}
	defer ch.Close()

	switch command {
	case "setup":
		if err := broker.DeclareTopology(ch); err != nil {
			logger.Fatal().Err(err).Msg("Failed to declare topology")
		}
		logger.Info().Msg("Topology declared")

	case "purge":
		if err := broker.PurgeAll(ch); err != nil {
			logger.Fatal().Err(err).Msg("Failed to purge queues")
		}
		logger.Info().Msg("Queues purged")

	case "delete":
		if err := broker.DeleteAll(ch); err != nil {
			logger.Fatal().Err(err).Msg("Failed to delete topology")
		}
		logger.Info().Msg("Topology deleted")

	case "depths":
		depths, err := broker.QueueDepths(ch)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to read queue depths")
		}
		for _, queue := range broker.AllQueues {
			fmt.Printf("%-22s %d\n", queue, depths[queue])
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

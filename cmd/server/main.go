// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-gridwar/pkg/config"
	"github.com/opd-ai/go-gridwar/pkg/engine"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/logging"
	"github.com/opd-ai/go-gridwar/pkg/network"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	tuningPath := flag.String("tuning", "", "Path to an archetype tuning YAML file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.Parse()

	if *createDefault {
		defaultConfig := config.DefaultConfig()
		if err := config.SaveConfig(defaultConfig, *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	var gameConfig *config.GameConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	if *tuningPath != "" {
		tuning, err := config.LoadTuning(*tuningPath)
		if err != nil {
			logger.Error(ctx, "Failed to load tuning file", err,
				"tuning_path", *tuningPath,
			)
			os.Exit(1)
		}
		if err := tuning.Apply(); err != nil {
			logger.Error(ctx, "Failed to apply tuning overrides", err)
			os.Exit(1)
		}
		logger.Info(ctx, "Applied archetype tuning overrides",
			"tuning_path", *tuningPath,
		)
	}

	bus := event.NewEventBus()
	world, err := engine.NewWorld(gameConfig, bus)
	if err != nil {
		logger.Error(ctx, "Failed to build world", err)
		os.Exit(1)
	}

	scheduler := engine.NewScheduler(world, logger)
	server := network.NewServer(world, gameConfig.Network, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go scheduler.Run(runCtx)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(runCtx)
	}()

	logger.Info(ctx, "Simulation running",
		"grid", gameConfig.GridWidth*gameConfig.GridHeight,
		"factions", len(gameConfig.Factions),
		"snapshot_hz", gameConfig.Network.SnapshotHz,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info(ctx, "Received shutdown signal", "signal", sig.String())
		cancel()
		<-serverDone
	case err := <-serverDone:
		if err != nil {
			logger.Error(ctx, "Server exited with error", err)
			cancel()
			os.Exit(1)
		}
	}

	logger.Info(ctx, "Shutdown complete")
}

// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/health"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
	"github.com/opd-ai/go-asteroid-run/pkg/network"
	"github.com/opd-ai/go-asteroid-run/pkg/resource"
)

// A session whose loop has not ticked for this long fails readiness
const maxTickAge = 2 * time.Second

func main() {
	logger := logging.NewLogger()
	ctx := logging.NewRun(context.Background())

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
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

	gameConfig, err := loadGameConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	// Apply environment variable overrides
	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}
	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	resources := resource.NewManager(envConfig, logger)
	if err := resources.Start(); err != nil {
		logger.Error(ctx, "Failed to start resource manager", err)
		os.Exit(1)
	}

	server := network.NewGameServer(gameConfig, envConfig, resources, logger)

	// Setup health checks
	healthChecker := health.NewHealthChecker(5*time.Second, logger)
	healthChecker.AddCheck(health.NewNetworkHealthCheck(server.ListenerAddress))
	healthChecker.AddCheck(health.NewGameLoopHealthCheck(server.StalledSessions, maxTickAge))
	healthChecker.AddCheck(resource.NewHealthCheck(resources))

	healthServer := &http.Server{
		Addr:         ":" + strconv.Itoa(envConfig.HealthPort),
		Handler:      healthChecker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	// Start health check server in background
	go func() {
		logger.Info(ctx, "Starting health check server",
			"port", envConfig.HealthPort,
			"checks", healthChecker.Names(),
		)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()

	if err := server.Start(envConfig.ListenAddr()); err != nil {
		logger.Error(ctx, "Failed to start server", err,
			"address", envConfig.ListenAddr(),
		)
		os.Exit(1)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info(ctx, "Shutting down server", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "Game server shutdown failed", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}
	if err := resources.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Resource manager shutdown failed", err)
	}
	logger.Info(ctx, "Server stopped")
}

// loadGameConfig reads path, falling back to defaults when it does not exist
func loadGameConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

// API server entry point for DocFacts.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/turtacn/DocFacts/internal/bootstrap"
	"github.com/turtacn/DocFacts/internal/config"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using environment and defaults\n", err)
		cfg, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := bootstrap.NewLoggerFromConfig(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: logger initialization: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting DocFacts API server",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port),
	)

	bootstrap.Version = version
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.Fatal("service initialization failed", logging.Err(err))
	}

	if err := app.Run(); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// loadConfig loads configuration from file, returning an error when the
// file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return config.Load(path)
}

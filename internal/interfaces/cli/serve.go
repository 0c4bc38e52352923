package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/DocFacts/internal/bootstrap"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocFacts/pkg/errors"
)

var servePort int

// NewServeCmd creates the serve command: run the HTTP API server with the
// full infrastructure stack from configuration.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the DocFacts HTTP API server",
		Long:  "Start the extraction API server with the infrastructure configured in\nthe config file: MinIO document storage, and optionally Redis caching\nand Kafka event publishing.",
		RunE:  runServe,
	}

	cmd.Flags().IntVar(&servePort, "port", 0, "HTTP listen port (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	cfg := cliCtx.Config
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	// The server logs per config, not per CLI flags.
	logger, err := bootstrap.NewLoggerFromConfig(cfg.Log)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "logger initialization failed")
	}

	bootstrap.Version = Version
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "service initialization failed")
	}

	logger.Info("starting docfacts server",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port))
	return app.Run()
}

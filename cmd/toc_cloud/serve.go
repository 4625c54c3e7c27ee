package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/config"
	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/reading"
	"github.com/toc-cloud/toc-cloud/internal/server"
	"github.com/toc-cloud/toc-cloud/internal/server/ratelimit"
)

var (
	servePort      int
	serveMigrate   bool
	serveNoReading bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the cloud, solution, preview and
structure check endpoints. The structure check is disabled when no API key
is configured for the selected provider.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply pending migrations before serving")
	serveCmd.Flags().BoolVar(&serveNoReading, "no-reading", false, "Do not load the kana reading dictionary")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if servePort != 0 {
		appConfig.Server.Port = servePort
	}

	database, err := openDatabase(ctx, appConfig)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := migrate(ctx, database); err != nil {
			return err
		}
	}

	jwtConfig, err := config.NewJWTConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid password configuration: %w", err)
	}

	cfg := server.Config{
		Port:           appConfig.Server.Port,
		AllowedOrigins: appConfig.Server.AllowedOrigins,
		AssistTimeout:  appConfig.Assist.Timeout.Std(),
		Store:          database,
		JWT:            jwtConfig,
		Password:       passwordConfig,
		RateLimit:      ratelimit.LoadConfig(os.Getenv),
		Logger:         logger,
	}

	linter, closeLinter, err := newLinter(ctx, appConfig, logger)
	if err != nil {
		logger.Warn("structure check disabled", zap.Error(err))
	} else {
		defer closeLinter()
		cfg.Linter = linter
	}

	if !serveNoReading {
		start := time.Now()
		reader, err := reading.Default()
		if err != nil {
			return fmt.Errorf("failed to load reading dictionary: %w", err)
		}
		cfg.Annotator = reader
		logger.Debug("reading dictionary loaded", zap.Duration("took", time.Since(start)))
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// openDatabase connects to the configured Postgres database.
func openDatabase(ctx context.Context, cfg *config.AppConfig) (*db.DB, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database, err := db.Connect(connectCtx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	return database, nil
}

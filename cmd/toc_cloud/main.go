// Package main provides the toc_cloud command: the HTTP API server plus
// maintenance and authoring tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/toc-cloud/toc-cloud/internal/config"
)

var (
	configPath string
	verbose    bool

	appConfig *config.AppConfig
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "toc_cloud",
	Short: "TOC Cloud API server and tools",
	Long: `TOC Cloud publishes evaporating clouds: the five boxes of a conflict, a
generated title, a read-aloud script and an optional structure check.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return err
		}
		appConfig, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Debug("config loaded",
			zap.String("command", cmd.Name()),
			zap.String("llm_provider", appConfig.LLM.Provider),
			zap.Int("port", appConfig.Server.Port),
		)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := openDatabase(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer database.Close()
		return migrate(cmd.Context(), database)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context, database *db.DB) error {
	applied, err := database.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if len(applied) == 0 {
		logger.Info("database schema up to date")
		return nil
	}
	logger.Info("migrations applied", zap.Strings("names", applied))
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/observability"
)

var backfillConcurrency int

var backfillCmd = &cobra.Command{
	Use:   "backfill-solutions",
	Short: "Recount solutions_count for every cloud",
	Long: `Recounts each cloud's solutions from the solutions table. Failures on one
cloud are reported and do not stop the rest; the command exits non-zero when
any cloud failed.`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().IntVarP(&backfillConcurrency, "concurrency", "j", 4, "Clouds recounted in parallel")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	if backfillConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	database, err := openDatabase(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	defer database.Close()

	report, err := database.BackfillSolutionCounts(cmd.Context(), backfillConcurrency, func(r db.BackfillResult) {
		if r.Err != nil {
			logger.Warn("recount failed", zap.Stringer("cloud_id", r.CloudID), zap.Error(r.Err))
			return
		}
		logger.Debug("recounted", zap.Stringer("cloud_id", r.CloudID), zap.Int("solutions", r.Count))
	})
	observability.NewPrinter(os.Stdout).PrintBackfill(report)
	if err != nil {
		return fmt.Errorf("backfill interrupted: %w", err)
	}
	if report.NG > 0 {
		return fmt.Errorf("%d of %d clouds failed", report.NG, report.OK+report.NG)
	}
	return nil
}

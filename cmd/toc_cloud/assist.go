package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/assist"
	"github.com/toc-cloud/toc-cloud/internal/observability"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

var (
	assistFlags cloudFlags
	assistJSON  bool
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Run the structure check on a cloud",
	Long: `Builds the read-aloud script for the cloud, sends its first four lines to
the completion service and prints the filtered comments together with the
local hints.`,
	RunE: runAssist,
}

func init() {
	assistFlags.bind(assistCmd)
	assistCmd.Flags().BoolVar(&assistJSON, "json", false, "Print JSON instead of a box")
	rootCmd.AddCommand(assistCmd)
}

func runAssist(cmd *cobra.Command, _ []string) error {
	fields, err := assistFlags.load(cmd.InOrStdin())
	if err != nil {
		return err
	}
	req := assistRequest(fields, readaloud.ParseMode(assistFlags.mode))

	linter, cleanup, err := newLinter(cmd.Context(), appConfig, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), appConfig.Assist.Timeout.Std())
	defer cancel()

	resp, err := linter.Lint(ctx, req)
	if err != nil {
		return fmt.Errorf("structure check failed: %w", err)
	}
	logger.Debug("structure check done", zap.Int("comments", resp.Comments.Total()), zap.Bool("cached", resp.Cached))

	if assistJSON {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintLint(resp, req.Lines)
	return nil
}

func assistRequest(fields types.CloudFields, mode readaloud.Mode) assist.Request {
	vm := readaloud.Build(readaloud.Input{A: fields.A, B: fields.B, C: fields.C, D: fields.D, Dprime: fields.Dprime}, mode)
	return assist.Request{
		A:      fields.A,
		B:      fields.B,
		C:      fields.C,
		D:      fields.D,
		Dprime: fields.Dprime,
		Lines:  vm.AssistLines(),
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toc-cloud/toc-cloud/internal/observability"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/reading"
)

var (
	previewFlags   cloudFlags
	previewReading string
	previewJSON    bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the title and read-aloud script of a cloud",
	Example: `  toc_cloud preview --a 良い休日を過ごす --b 家族の希望を尊重したい \
    --c 体を休めたい --d 遊園地に行く --dprime 家で寝る --reading hiragana`,
	RunE: runPreview,
}

func init() {
	previewFlags.bind(previewCmd)
	previewCmd.Flags().StringVar(&previewReading, "reading", "", "Add kana readings: katakana or hiragana")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print JSON instead of a box")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	fields, err := previewFlags.load(cmd.InOrStdin())
	if err != nil {
		return err
	}

	mode := readaloud.ParseMode(previewFlags.mode)
	resp := preview(fields, mode)

	if previewReading != "" {
		reader, err := reading.Default()
		if err != nil {
			return fmt.Errorf("failed to load reading dictionary: %w", err)
		}
		vm := readaloud.VM{Lines: resp.Lines}
		reader.Annotate(&vm, reading.ParseScript(previewReading))
		resp.Lines = vm.Lines
	}

	if previewJSON {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintPreview(&resp)
	return nil
}

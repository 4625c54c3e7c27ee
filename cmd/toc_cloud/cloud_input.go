package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toc-cloud/toc-cloud/internal/phrase"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/title"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

// cloudFlags reads the five cloud fields from flags or from a JSON file.
type cloudFlags struct {
	fields types.CloudFields
	in     string
	mode   string
}

func (f *cloudFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fields.A, "a", "", "Goal (A)")
	cmd.Flags().StringVar(&f.fields.B, "b", "", "Need behind D (B)")
	cmd.Flags().StringVar(&f.fields.C, "c", "", "Need behind D' (C)")
	cmd.Flags().StringVar(&f.fields.D, "d", "", "Action (D)")
	cmd.Flags().StringVar(&f.fields.Dprime, "dprime", "", "Opposing action (D')")
	cmd.Flags().StringVarP(&f.in, "in", "i", "", `JSON file with {"a","b","c","d","d_prime"}; "-" reads stdin`)
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(readaloud.ModeAdult), "Read-aloud mode: adult or kids")
}

// load returns the fields, with file values taking precedence over empty flags.
func (f *cloudFlags) load(stdin io.Reader) (types.CloudFields, error) {
	fields := f.fields
	if f.in != "" {
		var r io.Reader = stdin
		if f.in != "-" {
			file, err := os.Open(f.in)
			if err != nil {
				return fields, fmt.Errorf("failed to open cloud file: %w", err)
			}
			defer file.Close()
			r = file
		}
		var fromFile types.CloudFields
		if err := json.NewDecoder(r).Decode(&fromFile); err != nil {
			return fields, fmt.Errorf("failed to parse cloud JSON: %w", err)
		}
		fields = mergeFields(fields, fromFile)
	}

	switch f.mode {
	case string(readaloud.ModeAdult), string(readaloud.ModeKids):
	default:
		return fields, fmt.Errorf("unknown mode %q (want adult or kids)", f.mode)
	}
	return fields, nil
}

func mergeFields(flags, file types.CloudFields) types.CloudFields {
	pick := func(flag, fromFile string) string {
		if strings.TrimSpace(fromFile) != "" {
			return fromFile
		}
		return flag
	}
	return types.CloudFields{
		A:      pick(flags.A, file.A),
		B:      pick(flags.B, file.B),
		C:      pick(flags.C, file.C),
		D:      pick(flags.D, file.D),
		Dprime: pick(flags.Dprime, file.Dprime),
	}
}

// preview derives what the editor shows for fields. Readings are left empty.
func preview(fields types.CloudFields, mode readaloud.Mode) types.PreviewResponse {
	b := phrase.NormalizeDesire(fields.B)
	c := phrase.NormalizeDesire(fields.C)
	t := title.Generate(title.Input{
		A:      strings.TrimSpace(fields.A),
		B:      b,
		C:      c,
		D:      strings.TrimSpace(fields.D),
		Dprime: strings.TrimSpace(fields.Dprime),
	})
	vm := readaloud.Build(readaloud.Input{A: fields.A, B: fields.B, C: fields.C, D: fields.D, Dprime: fields.Dprime}, mode)

	return types.PreviewResponse{
		Title:       t.Title,
		TitleAuto:   t.TitleAuto,
		BNormalized: b,
		CNormalized: c,
		Mode:        string(mode),
		Lines:       vm.Lines,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

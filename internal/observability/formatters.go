// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/toc-cloud/toc-cloud/internal/assist"
	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes, in terminal cells
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// width measures terminal cells with ambiguous-width symbols as one cell, whatever
// the locale.
var width = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// cell pads or truncates s to exactly w terminal cells. Kana and kanji take two.
func cell(s string, w int) string {
	if width.StringWidth(s) > w {
		s = width.Truncate(s, w, "...")
	}
	return width.FillRight(s, w)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", cell(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", cell(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPreview outputs the derived title, normalized desires and read-aloud lines.
func (p *Printer) PrintPreview(preview *types.PreviewResponse) {
	if preview == nil {
		return
	}

	var sb strings.Builder
	auto := ""
	if preview.TitleAuto {
		auto = " (auto)"
	}
	sb.WriteString(fmt.Sprintf("Title: %s%s\n", preview.Title, auto))
	sb.WriteString(fmt.Sprintf("B:     %s\n", preview.BNormalized))
	sb.WriteString(fmt.Sprintf("C:     %s\n", preview.CNormalized))
	sb.WriteString("\n")

	for i, line := range preview.Lines {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, line.Text))
		if line.Reading != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", line.Reading))
		}
	}

	p.printBox("READ-ALOUD ("+strings.ToUpper(preview.Mode)+")", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLint outputs the linter comments grouped by line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintLint(resp *assist.Response, lines []assist.Line) {
	if resp == nil {
		return
	}
	if resp.Comments.Total() == 0 && resp.Local.Total() == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", cell("✅ NO COMMENTS", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	text := make(map[string]string, len(lines))
	for _, l := range lines {
		text[l.Key] = l.Text
	}

	var sb strings.Builder
	for _, key := range assist.LineKeys {
		comments := append(append([]assist.Comment{}, resp.Comments[key]...), resp.Local[key]...)
		if len(comments) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s. %s\n", key, text[key]))
		for _, c := range comments {
			mark := "⚠"
			if c.Severity == assist.SeverityCrit {
				mark = "✖"
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", mark, c.Text))
		}
		sb.WriteString("\n")
	}

	title := "STRUCTURE CHECK"
	if resp.Cached {
		title += " (cached)"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintBackfill outputs the OK/NG summary of a solution count backfill and the
// first failures.
func (p *Printer) PrintBackfill(report *db.BackfillReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("OK: %d\n", report.OK))
	sb.WriteString(fmt.Sprintf("NG: %d", report.NG))

	shown := 0
	for _, r := range report.Results {
		if r.Err == nil {
			continue
		}
		if shown == 0 {
			sb.WriteString("\n\nFailures:")
		}
		if shown == maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more", report.NG-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("\n  • %s: %v", r.CloudID, r.Err))
		shown++
	}

	p.printBox("SOLUTION COUNT BACKFILL", sb.String())
}

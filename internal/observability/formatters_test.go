package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/toc-cloud/toc-cloud/internal/assist"
	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

func assertAligned(t *testing.T, output string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		assert.Equal(t, boxWidth, width.StringWidth(line), "line %q", line)
	}
}

func TestPrintPreview(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPreview(&types.PreviewResponse{
		Title:       "遊園地/家で寝るの対立",
		TitleAuto:   true,
		BNormalized: "家族の希望を尊重する",
		CNormalized: "体を休める",
		Mode:        "adult",
		Lines: []readaloud.Line{
			{Key: "1", Text: "良い休日を過ごすためには、家族の希望を尊重する必要がある。", Reading: "ヨイキュウジツ"},
			{Key: "2", Text: "良い休日を過ごすためには、体を休める必要がある。"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "READ-ALOUD (ADULT)")
	assert.Contains(t, output, "遊園地/家で寝るの対立 (auto)")
	assert.Contains(t, output, "ヨイキュウジツ")
	assert.Contains(t, output, "...", "long lines are truncated")
	assertAligned(t, output)
}

func TestPrintPreview_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPreview(nil)

	assert.Empty(t, buf.String())
}

func TestPrintLint(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	comments := assist.EmptyComments()
	comments["2"] = []assist.Comment{{Severity: assist.SeverityCrit, Text: "前提が逆です"}}
	local := assist.EmptyComments()
	local["2"] = []assist.Comment{{Severity: assist.SeverityWarn, Text: "語尾が揃っていません"}}

	p.PrintLint(&assist.Response{Comments: comments, Local: local, Cached: true}, []assist.Line{
		{Key: "1", Text: "一行目"},
		{Key: "2", Text: "二行目"},
	})
	output := buf.String()

	assert.Contains(t, output, "STRUCTURE CHECK (cached)")
	assert.Contains(t, output, "2. 二行目")
	assert.Contains(t, output, "✖ 前提が逆です")
	assert.Contains(t, output, "⚠ 語尾が揃っていません")
	assert.NotContains(t, output, "一行目")
}

func TestPrintLint_NoComments(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintLint(&assist.Response{Comments: assist.EmptyComments()}, nil)

	assert.Contains(t, buf.String(), "NO COMMENTS")
}

func TestPrintBackfill(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &db.BackfillReport{OK: 2, NG: 1}
	failed := uuid.New()
	report.Results = []db.BackfillResult{
		{CloudID: uuid.New(), Count: 3},
		{CloudID: failed, Err: errors.New("timeout")},
		{CloudID: uuid.New(), Count: 0},
	}

	p.PrintBackfill(report)
	output := buf.String()

	assert.Contains(t, output, "OK: 2")
	assert.Contains(t, output, "NG: 1")
	assert.Contains(t, output, failed.String())
	assertAligned(t, output)
}

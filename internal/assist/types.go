// Package assist is the structural linter for conflict clouds. It builds the
// instruction sent to the completion service, decodes the per-line comments that come
// back and vetoes the ones that contradict the fixed rules of a valid cloud.
package assist

import (
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/readaloud"
)

// Severity of a comment.
type Severity string

const (
	SeverityWarn Severity = "warn"
	SeverityCrit Severity = "crit"
)

// ParseSeverity maps anything other than "crit" to warn.
func ParseSeverity(s string) Severity {
	if Severity(strings.TrimSpace(s)) == SeverityCrit {
		return SeverityCrit
	}
	return SeverityWarn
}

// Comment is one remark about a read-aloud line.
type Comment struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// LineKeys are the keys of the lines the linter reviews, in order.
var LineKeys = []string{"1", "2", "3", "4"}

// MaxLines is the number of read-aloud lines sent for review.
const MaxLines = 4

// Comments groups comments by line key.
type Comments map[string][]Comment

// EmptyComments returns a Comments value with every line key present and empty.
func EmptyComments() Comments {
	c := make(Comments, len(LineKeys))
	for _, k := range LineKeys {
		c[k] = []Comment{}
	}
	return c
}

// Total counts comments across all lines.
func (c Comments) Total() int {
	n := 0
	for _, k := range LineKeys {
		n += len(c[k])
	}
	return n
}

// Line is a read-aloud line as sent for review.
type Line = readaloud.AssistLine

// Request is one lint invocation: the five cloud fields as typed plus up to four lines.
type Request struct {
	A      string `json:"A"`
	B      string `json:"B"`
	C      string `json:"C"`
	D      string `json:"D"`
	Dprime string `json:"Dprime"`
	Lines  []Line `json:"lines"`
}

// Complete reports whether all five fields are filled in.
func (r Request) Complete() bool {
	for _, f := range []string{r.A, r.B, r.C, r.D, r.Dprime} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// Response is the linter result. Comments come from the completion service after
// filtering; Local holds hints computed without it.
type Response struct {
	Comments Comments `json:"comments"`
	Local    Comments `json:"local,omitempty"`
	Cached   bool     `json:"cached"`
}

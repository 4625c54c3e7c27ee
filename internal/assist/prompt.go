package assist

import (
	"fmt"
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/prompts"
)

const (
	promptFile = "assist.json"
	promptKey  = "structure-check"
)

// Validate checks that a request can be sent: all five fields filled in, at most four
// lines, each keyed "1" to "4".
func (r Request) Validate() error {
	fields := []struct{ name, value string }{
		{"A", r.A}, {"B", r.B}, {"C", r.C}, {"D", r.D}, {"Dprime", r.Dprime},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &RequestError{Field: f.name, Message: "must not be empty"}
		}
	}

	if len(r.Lines) > MaxLines {
		return &RequestError{Field: "lines", Message: fmt.Sprintf("at most %d lines", MaxLines)}
	}
	for i, l := range r.Lines {
		if !isLineKey(l.Key) {
			return &RequestError{Field: fmt.Sprintf("lines[%d].key", i), Message: fmt.Sprintf("unknown key %q", l.Key)}
		}
	}
	return nil
}

func isLineKey(k string) bool {
	for _, lk := range LineKeys {
		if k == lk {
			return true
		}
	}
	return false
}

// BuildPrompt renders the structure-check instruction with the request's fields and
// lines, one "key: text" per line.
func BuildPrompt(req Request) (string, error) {
	template, err := prompts.Get(promptFile, promptKey)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, l.Key+": "+l.Text)
	}

	prompt := prompts.Format(template, map[string]string{
		"A":      req.A,
		"B":      req.B,
		"C":      req.C,
		"D":      req.D,
		"Dprime": req.Dprime,
		"Lines":  strings.Join(lines, "\n"),
	})
	return strings.TrimSpace(prompt), nil
}

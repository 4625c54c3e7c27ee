package assist

import (
	"fmt"

	"github.com/toc-cloud/toc-cloud/internal/phrase"
)

// maxCommentsPerLine caps local hints the same way the model is instructed to.
const maxCommentsPerLine = 2

// Precheck computes hints from fixed heuristics without calling the completion
// service. It stays silent unless a pattern clearly matches.
func Precheck(req Request) Comments {
	out := EmptyComments()
	add := func(key string, sev Severity, text string) {
		if len(out[key]) < maxCommentsPerLine {
			out[key] = append(out[key], Comment{Severity: sev, Text: text})
		}
	}

	if phrase.IsNegPair(req.B, req.C) {
		add("3", SeverityCrit, "BとCが同じ行動の「する/しない」になっています")
	}

	if sd := phrase.Stem(req.D); sd != "" && sd == phrase.Stem(req.Dprime) &&
		!phrase.IsObviousConflict(req.D, req.Dprime) {
		add("4", SeverityWarn, "DとD'が同じ行動で、対立になっていません")
	}

	desires := []struct {
		key, name, text string
	}{
		{"1", "B", req.B},
		{"3", "C", req.C},
	}
	for _, d := range desires {
		if !phrase.ShouldQuestionLink(req.A, d.text) {
			continue
		}
		if phrase.LooksLikeAction(d.text) && !phrase.LooksLikePositiveState(d.text) {
			add(d.key, SeverityWarn, fmt.Sprintf("%sが行動の形です。満たしたい状態で書けますか", d.name))
		}
		if w, ok := phrase.MatchGeneral(d.text); ok {
			add(d.key, SeverityWarn, fmt.Sprintf("%sの「%s」は範囲が広すぎます", d.name, w))
		} else if w, ok := phrase.MatchAbstract(d.text); ok {
			add(d.key, SeverityWarn, fmt.Sprintf("%sの「%s」をもう少し具体的にできますか", d.name, w))
		}
	}

	actions := []struct {
		key, name, text string
	}{
		{"2", "D", req.D},
		{"4", "D'", req.Dprime},
	}
	for _, a := range actions {
		if phrase.LooksLikeDesireState(a.text) {
			add(a.key, SeverityWarn, fmt.Sprintf("%sが状態の形です。具体的な行動で書けますか", a.name))
		}
	}

	return out
}

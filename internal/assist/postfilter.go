package assist

import (
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/phrase"
)

// bannedSubstrings flag comments that treat the built-in tension of a cloud (D blocks
// C, D' blocks B, D opposes D') as a defect.
var bannedSubstrings = []string{
	"矛盾する",
	"矛盾が生じ",
	"矛盾してしまう",
	"満たされない",
	"満たせなくなる",
	"対立している",
	"相反する",
	"同時に実行できない",
	"同時にはできない",
	"トレードオフ",
}

// desireAsActionMarkers flag comments claiming a line reads as a desire or request.
var desireAsActionMarkers = []string{
	"要望表現",
	"要望になって",
	"要望に見え",
	"要望っぽ",
	"願望表現",
	"願望になって",
	"行動ではなく要望",
	"行動になっていない",
}

// DropReason explains why the post-filter removed a comment.
type DropReason string

const (
	DropBlank         DropReason = "blank"
	DropBanned        DropReason = "banned_phrase"
	DropClearlyAction DropReason = "line_is_clear_action"
)

// Dropped is a comment removed by the post-filter.
type Dropped struct {
	Key     string     `json:"key"`
	Comment Comment    `json:"comment"`
	Reason  DropReason `json:"reason"`
	Match   string     `json:"match,omitempty"`
}

// PostFilter removes comments that are known false positives. Survivors keep their
// order and every line key is present in the result.
func PostFilter(comments Comments, lines []Line) Comments {
	kept, _ := PostFilterWithReport(comments, lines)
	return kept
}

// PostFilterWithReport is PostFilter that also returns what was dropped and why.
func PostFilterWithReport(comments Comments, lines []Line) (Comments, []Dropped) {
	lineText := make(map[string]string, len(lines))
	for _, l := range lines {
		lineText[l.Key] = l.Text
	}

	out := EmptyComments()
	var dropped []Dropped
	for _, key := range LineKeys {
		for _, c := range comments[key] {
			reason, match := vetoReason(c, lineText[key])
			if reason != "" {
				dropped = append(dropped, Dropped{Key: key, Comment: c, Reason: reason, Match: match})
				continue
			}
			out[key] = append(out[key], c)
		}
	}
	return out, dropped
}

func vetoReason(c Comment, lineText string) (DropReason, string) {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return DropBlank, ""
	}
	if m, ok := containsAny(text, bannedSubstrings); ok {
		return DropBanned, m
	}
	if _, ok := containsAny(text, desireAsActionMarkers); ok {
		if m, ok := phrase.MatchClearAction(lineText); ok {
			return DropClearlyAction, m
		}
	}
	return "", ""
}

func containsAny(s string, words []string) (string, bool) {
	for _, w := range words {
		if strings.Contains(s, w) {
			return w, true
		}
	}
	return "", false
}

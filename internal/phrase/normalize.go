// Package phrase implements the deterministic rewriting rules applied to the short
// Japanese phrases that make up a conflict cloud.
package phrase

import (
	"strings"
	"unicode/utf8"
)

// desireSuffixRewrites are applied in order, each to the output of the previous one.
var desireSuffixRewrites = []struct {
	suffix      string
	replacement string
}{
	{"を失いたくない", "を失わない"},
	{"したくない", "しない"},
	{"なりたくない", "にならない"},
	{"たくない", "ない"},
	{"したい", "する"},
}

// iDanToUDan maps the final mora of a desiderative stem back to its dictionary form.
var iDanToUDan = map[string]string{
	"き": "く",
	"ぎ": "ぐ",
	"し": "す",
	"ち": "つ",
	"に": "ぬ",
	"び": "ぶ",
	"み": "む",
	"り": "る",
	"い": "う",
}

// verbLikeEndings are the endings the final guard accepts as already declarative.
var verbLikeEndings = []string{"る", "う", "す", "ない", "する"}

// NormalizeDesire rewrites a desire phrase ("早く帰りたい") into its plain declarative
// form ("早く帰る"). Phrases that do not end like a verb are treated as nouns and
// completed with "を大事にする" unless they already carry an object particle.
func NormalizeDesire(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	for _, r := range desireSuffixRewrites {
		s = replaceSuffix(s, r.suffix, r.replacement)
	}

	if strings.HasSuffix(s, "たい") {
		stem := strings.TrimSuffix(s, "たい")
		last := lastRune(stem)
		if plain, ok := iDanToUDan[last]; ok {
			s = strings.TrimSuffix(stem, last) + plain
		} else {
			// ichidan-style stem: たべ -> たべる
			s = stem + "る"
		}
	}

	if !hasAnySuffix(s, verbLikeEndings) {
		if strings.Contains(s, "を") {
			return s
		}
		return s + "を大事にする"
	}

	return s
}

// replaceSuffix swaps suffix for replacement when s ends with suffix.
func replaceSuffix(s, suffix, replacement string) string {
	if strings.HasSuffix(s, suffix) {
		return strings.TrimSuffix(s, suffix) + replacement
	}
	return s
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// lastRune returns the final character of s as a string, or "" when s is empty.
func lastRune(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[len(s)-size:]
}

// RuneLen counts characters rather than bytes. All length limits in this module are
// expressed in characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

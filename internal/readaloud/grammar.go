package readaloud

import (
	"regexp"
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/phrase"
)

var trailingParticleRe = regexp.MustCompile(`[をがにへでと]$`)

// purposeMarkers mean the phrase already says "for the sake of".
var purposeMarkers = []string{"ためには", "ために", "のため"}

// kidsVerbEndings are dictionary-form endings that read as a verb in the kids templates.
var kidsVerbEndings = []string{"る", "す", "く", "ぐ", "む", "ぶ", "ぬ", "つ"}

func tidy(s string) string {
	return phrase.CollapseSpaces(s)
}

func normalizeForTameNiha(left string) string {
	x := tidy(left)
	if x == "" {
		return x
	}
	for _, m := range purposeMarkers {
		if strings.Contains(x, m) {
			return strings.TrimSuffix(x, "、")
		}
	}
	return trailingParticleRe.ReplaceAllString(x, "")
}

// joinTameNiha renders "{x}ためには、", inserting の after noun phrases.
func joinTameNiha(left string) string {
	x := normalizeForTameNiha(left)
	if x == "" {
		return "ためには、"
	}
	if !phrase.LooksLikeVerbPhrase(x) {
		x += "の"
	}
	return x + "ためには、"
}

// kidsVerbish is the loose "is this a verb phrase" test shared by the kids helpers.
func kidsVerbish(s string) bool {
	if strings.Contains(s, "を") || strings.Contains(s, "に") {
		return true
	}
	for _, e := range kidsVerbEndings {
		if strings.HasSuffix(s, e) {
			return true
		}
	}
	return false
}

func endsWithAny(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// wantKids fits s into "...したい".
func wantKids(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "やりたい"
	case strings.HasSuffix(s, "たい"):
		return s
	case strings.HasSuffix(s, "する"):
		return strings.TrimSuffix(s, "する") + "したい"
	default:
		return s + "ことをしたい"
	}
}

// ifKids fits s into "...なら".
func ifKids(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "そうするなら"
	case endsWithAny(s, "ない", "たい", "れる", "られる", "する"):
		return s + "なら"
	case kidsVerbish(s):
		return s + "なら"
	default:
		return s + "するなら"
	}
}

// goodKids fits s into "...のがよさそう".
func goodKids(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "それのがよさそう"
	case endsWithAny(s, "ない", "たい", "する"):
		return s + "のがよさそう"
	case kidsVerbish(s):
		return s + "のがよさそう"
	default:
		return s + "するのがよさそう"
	}
}

// whenKids fits s into "...と".
func whenKids(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "そうすると"
	case endsWithAny(s, "すると", "するとき", "したら"):
		return s
	case kidsVerbish(s) || endsWithAny(s, "ない", "する"):
		return s + "と"
	default:
		return s + "をすると"
	}
}

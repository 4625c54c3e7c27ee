// Package title derives a short display title for a conflict cloud from its two
// competing actions.
package title

import (
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/phrase"
)

const (
	// MaxLength is the hard upper bound on a generated title, in characters.
	MaxLength = 24

	// Fallback is used when a cloud has neither actions nor a goal.
	Fallback = "新しいクラウド"

	suffix    = "の対立"
	separator = "/"

	// minSharedPrefix is the shortest common prefix worth compressing.
	minSharedPrefix = 6
)

// commonTailPhrases are boilerplate endings removed from an action before labelling.
// At most one is removed, the first that matches.
var commonTailPhrases = []string{
	"ことに軸足を置く",
	"ことを優先する",
	"ことを最優先する",
	"ことを重視する",
	"ことを大事にする",
	"ことを最大化する",
	"ことを最小化する",
	"方針をとる",
	"の方針でいく",
}

var leadingAdverbs = []string{"できるだけ", "優先的に", "とにかく"}

var clauseBoundaries = map[rune]bool{
	'を': true, 'に': true, 'へ': true, 'と': true, 'で': true, 'が': true, 'は': true,
	'、': true, '。': true, '（': true, '）': true, ' ': true, '　': true,
}

// Input carries the cloud fields a title can be derived from.
type Input struct {
	A      string
	B      string // normalized desire
	C      string // normalized desire
	D      string
	Dprime string
}

// Result is a generated title.
type Result struct {
	Title     string `json:"title"`
	TitleAuto bool   `json:"titleAuto"`
}

// Generate builds a title of at most MaxLength characters. With both actions present
// it reads "{D}/{D'}の対立" using only the parts that differ; with only a goal it
// reads "{A}をめぐる対立"; otherwise it is Fallback.
func Generate(in Input) Result {
	d := strings.TrimSpace(in.D)
	dp := strings.TrimSpace(in.Dprime)

	if d != "" && dp != "" {
		left, right := diffLabels(d, dp)
		return Result{Title: buildWithinBudget(left, right), TitleAuto: true}
	}

	if a := strings.TrimSpace(in.A); a != "" {
		return Result{Title: truncate(a+"をめぐる対立", MaxLength), TitleAuto: true}
	}

	return Result{Title: Fallback, TitleAuto: true}
}

func diffLabels(d, dp string) (string, string) {
	d1 := normalizeLabel(stripKnownTailPhrase(d))
	d2 := normalizeLabel(stripKnownTailPhrase(dp))

	a, b := stripCommonSuffix(d1, d2)
	left, right := a, b
	if left == "" {
		left = d1
	}
	if right == "" {
		right = d2
	}

	if l, r, ok := compressCommonPrefix(left, right); ok {
		return l, r
	}
	return left, right
}

func stripKnownTailPhrase(s string) string {
	x := strings.TrimSpace(s)
	for _, p := range commonTailPhrases {
		if strings.HasSuffix(x, p) {
			return strings.TrimSpace(strings.TrimSuffix(x, p))
		}
	}
	return x
}

// stripCommonSuffix removes the characters both labels end with, one at a time.
func stripCommonSuffix(a, b string) (string, string) {
	x := []rune(strings.TrimSpace(a))
	y := []rune(strings.TrimSpace(b))
	for len(x) > 0 && len(y) > 0 && x[len(x)-1] == y[len(y)-1] {
		x = x[:len(x)-1]
		y = y[:len(y)-1]
	}
	return strings.TrimSpace(string(x)), strings.TrimSpace(string(y))
}

// compressCommonPrefix shortens the right label to the part after the shared prefix
// when both labels would not fit side by side. The cut is moved back to the last
// clause boundary inside the shared prefix.
func compressCommonPrefix(a, b string) (string, string, bool) {
	x := strings.TrimSpace(a)
	y := strings.TrimSpace(b)
	if x == "" || y == "" {
		return "", "", false
	}
	if phrase.RuneLen(x+separator+y) <= MaxLength {
		return "", "", false
	}

	xr := []rune(x)
	yr := []rune(y)
	n := min(len(xr), len(yr))
	k := 0
	for k < n && xr[k] == yr[k] {
		k++
	}
	if k < minSharedPrefix {
		return "", "", false
	}

	cut := k
	for i := k - 1; i >= 0; i-- {
		if clauseBoundaries[xr[i]] {
			cut = i + 1
			break
		}
	}

	dx := strings.TrimSpace(string(xr[cut:]))
	dy := strings.TrimSpace(string(yr[cut:]))
	if phrase.RuneLen(dx) < 2 || phrase.RuneLen(dy) < 2 {
		return "", "", false
	}
	return x, dy, true
}

func normalizeLabel(s string) string {
	x := strings.TrimSpace(s)
	for _, adverb := range leadingAdverbs {
		x = strings.TrimPrefix(x, adverb)
	}
	x = strings.TrimSuffix(x, "を")
	x = strings.TrimSuffix(x, "する")
	return strings.TrimSpace(x)
}

// truncate cuts s to max characters, replacing the last kept character with "…".
func truncate(s string, max int) string {
	x := strings.TrimSpace(s)
	r := []rune(x)
	if len(r) <= max {
		return x
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// buildWithinBudget splits the characters left after the separator and suffix evenly,
// giving any slack from a short label to the other one.
func buildWithinBudget(leftRaw, rightRaw string) string {
	budget := MaxLength - phrase.RuneLen(separator) - phrase.RuneLen(suffix)

	left := strings.TrimSpace(leftRaw)
	right := strings.TrimSpace(rightRaw)

	leftMax := budget / 2
	rightMax := budget - leftMax

	leftLen := phrase.RuneLen(left)
	rightLen := phrase.RuneLen(right)
	if leftLen < leftMax {
		rightMax += leftMax - leftLen
		leftMax = leftLen
	} else if rightLen < rightMax {
		leftMax += rightMax - rightLen
		rightMax = rightLen
	}

	return truncate(left, leftMax) + separator + truncate(right, rightMax) + suffix
}

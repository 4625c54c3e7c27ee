package phrase

import (
	"regexp"
	"strings"
)

// Word lists used by the structural heuristics. They are fixed for the life of the process.
var (
	generalWords  = []string{"人は", "みんな", "あらゆる", "男は", "女は", "いつも", "誰でも", "全部", "必ず", "絶対"}
	abstractWords = []string{"成功", "成長", "価値", "最適", "改善", "重要", "効率", "品質", "満足", "信頼", "関係"}

	desireStateNouns = []string{"期待", "評判", "信頼", "満足", "品質", "ブランド", "認知", "価値", "人気", "好感", "売上", "利益"}
	desireStateVerbs = []string{"高める", "上げる", "増やす", "改善する", "伸ばす", "守る", "保つ"}

	// clearActionFragments name concrete policy verbs (implement, abolish, prohibit...).
	clearActionFragments = []string{"導入", "実施", "実行", "廃止", "禁止", "許可", "採用", "撤廃", "中止", "開始"}
	normativeMarkers     = []string{"すべき", "するべき", "べきではない", "べきだと感じる"}
)

var (
	whitespaceRe     = regexp.MustCompile(`[\s\x0b\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)
	stateChangeRe    = regexp.MustCompile(`が(高まる|高くなる|上がる|増える|良くなる)$`)
	positiveStateRe  = regexp.MustCompile(`(ふやさない|増やさない|守る|防ぐ|得る|保つ|実現する|確保する|減らす|高まる|高める)`)
	actionEndingRe   = regexp.MustCompile(`(する|しない|ます|る|す|ない)$`)
	verbPhraseEndRe  = regexp.MustCompile(`(する|しない|できる|なる|ある|いる|ない|れる|られる|ている|た|ます|です)$`)
	godanEndRe       = regexp.MustCompile(`[うくぐすつぬぶむる]$`)
	priorityAnchorRe = regexp.MustCompile(`(優先|軸足)`)
	focusTailRe      = regexp.MustCompile(`に?注力する$`)
)

// stemStrips are removed one after another, each applied to the previous result.
var stemStrips = []string{"しない", "さない", "ない", "する", "す", "る"}

// CollapseSpaces trims s and folds each whitespace run, ideographic space included,
// into one ASCII space.
func CollapseSpaces(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Compact removes all whitespace, ideographic space included.
func Compact(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, ""))
}

// Stem drops negation and common verb endings so that 引っ越す and 引っ越さない compare equal.
func Stem(s string) string {
	t := Compact(s)
	for _, suffix := range stemStrips {
		t = strings.TrimSuffix(t, suffix)
	}
	return t
}

// HasNegation reports whether the phrase ends in a negative form.
func HasNegation(s string) bool {
	return strings.HasSuffix(Compact(s), "ない")
}

// IsNegPair reports whether x and y are the same verb with opposite polarity.
func IsNegPair(x, y string) bool {
	sx := Stem(x)
	return sx != "" && sx == Stem(y) && HasNegation(x) != HasNegation(y)
}

// IsObviousConflict reports whether two actions visibly exclude each other. Only a
// fixed set of patterns is recognised; anything else is reported as no conflict.
func IsObviousConflict(d, dPrime string) bool {
	if IsNegPair(d, dPrime) {
		return true
	}

	x := Compact(d)
	y := Compact(dPrime)
	if strings.Contains(x, "注力する") && strings.Contains(y, "注力する") {
		objX := focusTailRe.ReplaceAllString(x, "")
		objY := focusTailRe.ReplaceAllString(y, "")
		if objX != "" && objY != "" && objX != objY {
			return true
		}
	}

	if strings.Contains(d, "先に") && strings.Contains(dPrime, "先に") {
		return true
	}
	if priorityAnchorRe.MatchString(d) && priorityAnchorRe.MatchString(dPrime) {
		return true
	}
	if crossed(d, dPrime, "右", "左") || crossed(d, dPrime, "進", "止") {
		return true
	}
	return false
}

func crossed(a, b, p, q string) bool {
	return (strings.Contains(a, p) && strings.Contains(b, q)) ||
		(strings.Contains(a, q) && strings.Contains(b, p))
}

// MatchGeneral returns the first over-general word found in s.
func MatchGeneral(s string) (string, bool) {
	return firstContained(s, generalWords)
}

// IsTooGeneral reports whether s contains a sweeping word such as みんな or 絶対.
func IsTooGeneral(s string) bool {
	_, ok := MatchGeneral(s)
	return ok
}

// MatchAbstract returns the first abstract word found in s.
func MatchAbstract(s string) (string, bool) {
	return firstContained(s, abstractWords)
}

// IsTooAbstract reports whether a desire leans on an abstract word such as 成長 or 価値.
func IsTooAbstract(s string) bool {
	_, ok := MatchAbstract(s)
	return ok
}

// LooksLikeDesireState reports whether s describes a state to reach (評判を高める,
// 売上が上がる) rather than a behaviour.
func LooksLikeDesireState(s string) bool {
	t := Compact(s)
	if t == "" {
		return false
	}
	if stateChangeRe.MatchString(t) {
		return true
	}
	if _, ok := firstContained(t, desireStateNouns); ok && hasAnySuffix(t, desireStateVerbs) {
		return true
	}
	return strings.HasSuffix(t, "させる")
}

// LooksLikePositiveState reports whether s mentions keeping, gaining or reducing something.
func LooksLikePositiveState(s string) bool {
	return positiveStateRe.MatchString(Compact(s))
}

// LooksLikeAction reports whether s ends like a behaviour. Desire states never count.
func LooksLikeAction(s string) bool {
	t := Compact(s)
	if t == "" || LooksLikeDesireState(s) {
		return false
	}
	return actionEndingRe.MatchString(t)
}

// ShouldQuestionLink reports whether the right side of a link deserves a "really?" hint.
func ShouldQuestionLink(_, right string) bool {
	return IsTooGeneral(right) || IsTooAbstract(right) || LooksLikeAction(right)
}

// LooksLikeVerbPhrase reports whether s ends in a verb or auxiliary form.
func LooksLikeVerbPhrase(s string) bool {
	t := strings.TrimSpace(s)
	return verbPhraseEndRe.MatchString(t) || godanEndRe.MatchString(t)
}

// MatchClearAction returns the action fragment or normative marker that makes s read
// as a policy decision.
func MatchClearAction(s string) (string, bool) {
	if m, ok := firstContained(s, clearActionFragments); ok {
		return m, true
	}
	return firstContained(s, normativeMarkers)
}

// LooksLikeClearAction reports whether s is unmistakably an action, either through a
// policy verb (導入, 廃止...) or normative phrasing (すべき).
func LooksLikeClearAction(s string) bool {
	_, ok := MatchClearAction(s)
	return ok
}

func firstContained(s string, words []string) (string, bool) {
	for _, w := range words {
		if strings.Contains(s, w) {
			return w, true
		}
	}
	return "", false
}

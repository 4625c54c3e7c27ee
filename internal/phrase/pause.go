package phrase

import (
	"math"
	"strings"
)

const (
	// PauseMarker is inserted to split long phrases for speech pacing.
	PauseMarker = "、"

	// pauseThreshold is the longest phrase left untouched.
	pauseThreshold = 20
)

// breakWords are candidate clause boundaries, scanned in this order.
var breakWords = []string{"ために", "ので", "から", "けど", "が", "と", "や", "または", "および"}

// AddOnePauseIfLong inserts a single PauseMarker into phrases longer than 20 characters
// that contain no punctuation. The marker goes right after the longest break word whose
// first occurrence starts inside the 35%-70% band of the phrase, or at the midpoint
// when no break word qualifies.
func AddOnePauseIfLong(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return t
	}

	chars := []rune(t)
	n := len(chars)
	if n <= pauseThreshold || strings.ContainsAny(t, "、。") {
		return t
	}

	// band edges are floor(n*0.35) and floor(n*0.7) in float64
	start := int(math.Floor(float64(n) * 0.35))
	end := int(math.Floor(float64(n) * 0.7))

	bestIdx := -1
	bestLen := 0
	for _, w := range breakWords {
		idx := runeIndex(t, w)
		if idx == -1 || idx < start || idx > end {
			continue
		}
		wLen := RuneLen(w)
		if wLen > bestLen {
			bestLen = wLen
			bestIdx = idx + wLen
		}
	}

	cut := n / 2
	if bestIdx != -1 {
		cut = bestIdx
	}
	return string(chars[:cut]) + PauseMarker + string(chars[cut:])
}

// runeIndex is strings.Index measured in characters.
func runeIndex(s, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return -1
	}
	return RuneLen(s[:i])
}

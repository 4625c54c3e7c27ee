// Package readaloud composes the six narrative sentences that walk a reader through a
// conflict cloud, in a formal register or a softer one for children.
package readaloud

import (
	"fmt"
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/phrase"
)

// Mode selects the template set.
type Mode string

const (
	ModeAdult Mode = "adult"
	ModeKids  Mode = "kids"
)

// ParseMode maps user input onto a Mode. Anything unrecognised is adult.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeKids {
		return ModeKids
	}
	return ModeAdult
}

// Token names a cloud field a line refers to.
type Token string

const (
	TokenA      Token = "A"
	TokenB      Token = "B"
	TokenC      Token = "C"
	TokenD      Token = "D"
	TokenDprime Token = "Dprime"
)

// Line is one read-aloud sentence. SpeakText is Text with extra pauses for speech.
type Line struct {
	Key             string  `json:"key"`
	Text            string  `json:"text"`
	SpeakText       string  `json:"speakText"`
	HighlightTokens []Token `json:"highlightTokens"`
	Reading         string  `json:"reading,omitempty"`
}

// Input holds the raw cloud fields. B and C are desires as the user typed them.
type Input struct {
	A      string
	B      string
	C      string
	D      string
	Dprime string
}

// VM is the read-aloud view model.
type VM struct {
	Lines []Line `json:"lines"`
}

// AssistLine is the {key, text} pair sent to the structural linter.
type AssistLine struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// AssistLines returns the first four lines, the ones the linter reviews.
func (vm VM) AssistLines() []AssistLine {
	n := min(len(vm.Lines), 4)
	out := make([]AssistLine, 0, n)
	for _, l := range vm.Lines[:n] {
		out = append(out, AssistLine{Key: l.Key, Text: l.Text})
	}
	return out
}

// fields are the cloud values after normalization and pause insertion.
type fields struct {
	a, b, c, d, dp string
}

// Build normalizes the desires, paces long phrases and renders the six lines for mode.
func Build(in Input, mode Mode) VM {
	f := fields{
		a:  phrase.AddOnePauseIfLong(in.A),
		b:  phrase.AddOnePauseIfLong(phrase.NormalizeDesire(in.B)),
		c:  phrase.AddOnePauseIfLong(phrase.NormalizeDesire(in.C)),
		d:  phrase.AddOnePauseIfLong(in.D),
		dp: phrase.AddOnePauseIfLong(in.Dprime),
	}

	if mode == ModeKids {
		return VM{Lines: kidsLines(f)}
	}
	return VM{Lines: adultLines(f)}
}

func adultLines(f fields) []Line {
	return []Line{
		{
			Key:             "1",
			Text:            fmt.Sprintf("%s%s必要がある。", joinTameNiha(f.a), f.b),
			SpeakText:       fmt.Sprintf("%s%s、必要がある。", joinTameNiha(f.a), f.b),
			HighlightTokens: []Token{TokenA, TokenB},
		},
		{
			Key:             "2",
			Text:            fmt.Sprintf("%s%sべきだと感じる。", joinTameNiha(f.b), f.d),
			SpeakText:       fmt.Sprintf("%s%s、べきだと、感じる。", joinTameNiha(f.b), f.d),
			HighlightTokens: []Token{TokenB, TokenD},
		},
		{
			Key:             "3",
			Text:            fmt.Sprintf("%s%s必要がある。", joinTameNiha(f.a), f.c),
			SpeakText:       fmt.Sprintf("%s%s、必要がある。", joinTameNiha(f.a), f.c),
			HighlightTokens: []Token{TokenA, TokenC},
		},
		{
			Key:             "4",
			Text:            fmt.Sprintf("%s%sべきだと感じる。", joinTameNiha(f.c), f.dp),
			SpeakText:       fmt.Sprintf("%s%s、べきだと、感じる。", joinTameNiha(f.c), f.dp),
			HighlightTokens: []Token{TokenC, TokenDprime},
		},
		{
			Key:             "5",
			Text:            fmt.Sprintf("%sと、%sのが難しい。", f.d, f.c),
			SpeakText:       fmt.Sprintf("%s、と、%s、のが、難しい。", f.d, f.c),
			HighlightTokens: []Token{TokenD, TokenC},
		},
		{
			Key:             "6",
			Text:            fmt.Sprintf("%sと、%sのが難しい。", f.dp, f.b),
			SpeakText:       fmt.Sprintf("%s、と、%s、のが、難しい。", f.dp, f.b),
			HighlightTokens: []Token{TokenDprime, TokenB},
		},
	}
}

func kidsLines(f fields) []Line {
	line1 := fmt.Sprintf("%s%s。", joinTameNiha(f.a), wantKids(f.b))
	line2 := fmt.Sprintf("そして、%s、%s。", ifKids(f.b), goodKids(f.d))
	line4 := fmt.Sprintf("だから、%s、%s。", ifKids(f.c), goodKids(f.dp))

	return []Line{
		{Key: "1", Text: line1, SpeakText: line1, HighlightTokens: []Token{TokenA, TokenB}},
		{Key: "2", Text: line2, SpeakText: line2, HighlightTokens: []Token{TokenB, TokenD}},
		{
			Key:             "3",
			Text:            fmt.Sprintf("もうひとつ、%s%s も だいじ。", joinTameNiha(f.a), f.c),
			SpeakText:       fmt.Sprintf("もうひとつ、%s%s、も、だいじ。", joinTameNiha(f.a), f.c),
			HighlightTokens: []Token{TokenA, TokenC},
		},
		{Key: "4", Text: line4, SpeakText: line4, HighlightTokens: []Token{TokenC, TokenDprime}},
		{
			Key:             "5",
			Text:            fmt.Sprintf("%s、%s が うまく いかなくなる。", whenKids(f.d), f.c),
			SpeakText:       fmt.Sprintf("%s、%s、が、うまく、いかなくなる。", whenKids(f.d), f.c),
			HighlightTokens: []Token{TokenD, TokenC},
		},
		{
			Key:             "6",
			Text:            fmt.Sprintf("%s、%s が うまく いかなくなる。", whenKids(f.dp), f.b),
			SpeakText:       fmt.Sprintf("%s、%s、が、うまく、いかなくなる。", whenKids(f.dp), f.b),
			HighlightTokens: []Token{TokenDprime, TokenB},
		},
	}
}

package readaloud

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workLifeCloud = Input{
	A:      "家族との時間を確保する",
	B:      "早く帰りたい",
	C:      "評価されたい",
	D:      "定時で退社する",
	Dprime: "残業して成果を出す",
}

func TestBuild_Adult(t *testing.T) {
	vm := Build(workLifeCloud, ModeAdult)

	want := []Line{
		{
			Key:             "1",
			Text:            "家族との時間を確保するためには、早く帰る必要がある。",
			SpeakText:       "家族との時間を確保するためには、早く帰る、必要がある。",
			HighlightTokens: []Token{TokenA, TokenB},
		},
		{
			Key:             "2",
			Text:            "早く帰るためには、定時で退社するべきだと感じる。",
			SpeakText:       "早く帰るためには、定時で退社する、べきだと、感じる。",
			HighlightTokens: []Token{TokenB, TokenD},
		},
		{
			Key:             "3",
			Text:            "家族との時間を確保するためには、評価される必要がある。",
			SpeakText:       "家族との時間を確保するためには、評価される、必要がある。",
			HighlightTokens: []Token{TokenA, TokenC},
		},
		{
			Key:             "4",
			Text:            "評価されるためには、残業して成果を出すべきだと感じる。",
			SpeakText:       "評価されるためには、残業して成果を出す、べきだと、感じる。",
			HighlightTokens: []Token{TokenC, TokenDprime},
		},
		{
			Key:             "5",
			Text:            "定時で退社すると、評価されるのが難しい。",
			SpeakText:       "定時で退社する、と、評価される、のが、難しい。",
			HighlightTokens: []Token{TokenD, TokenC},
		},
		{
			Key:             "6",
			Text:            "残業して成果を出すと、早く帰るのが難しい。",
			SpeakText:       "残業して成果を出す、と、早く帰る、のが、難しい。",
			HighlightTokens: []Token{TokenDprime, TokenB},
		},
	}

	if diff := cmp.Diff(want, vm.Lines); diff != "" {
		t.Errorf("adult lines mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_IdeographicSpaceFolds(t *testing.T) {
	in := workLifeCloud
	in.A = "家族と\u3000時間"

	vm := Build(in, ModeAdult)

	require.Len(t, vm.Lines, 6)
	assert.Equal(t, "家族と 時間のためには、早く帰る必要がある。", vm.Lines[0].Text)
}

func TestBuild_Kids(t *testing.T) {
	vm := Build(workLifeCloud, ModeKids)
	require.Len(t, vm.Lines, 6)

	texts := make([]string, 0, len(vm.Lines))
	for _, l := range vm.Lines {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{
		"家族との時間を確保するためには、早く帰ることをしたい。",
		"そして、早く帰るなら、定時で退社するのがよさそう。",
		"もうひとつ、家族との時間を確保するためには、評価される も だいじ。",
		"だから、評価されるなら、残業して成果を出すのがよさそう。",
		"定時で退社すると、評価される が うまく いかなくなる。",
		"残業して成果を出すと、早く帰る が うまく いかなくなる。",
	}, texts)

	assert.Equal(t, vm.Lines[0].Text, vm.Lines[0].SpeakText)
	assert.Equal(t, "もうひとつ、家族との時間を確保するためには、評価される、も、だいじ。", vm.Lines[2].SpeakText)
	assert.Equal(t, "定時で退社すると、評価される、が、うまく、いかなくなる。", vm.Lines[4].SpeakText)
	assert.Equal(t, []Token{TokenDprime, TokenB}, vm.Lines[5].HighlightTokens)
}

func TestBuild_EmptyInput(t *testing.T) {
	vm := Build(Input{}, ModeAdult)
	require.Len(t, vm.Lines, 6)
	assert.Equal(t, "ためには、必要がある。", vm.Lines[0].Text)
	assert.Equal(t, "と、のが難しい。", vm.Lines[4].Text)

	kids := Build(Input{}, ModeKids)
	assert.Equal(t, "ためには、やりたい。", kids.Lines[0].Text)
	assert.Equal(t, "そして、そうするなら、それのがよさそう。", kids.Lines[1].Text)
	assert.Equal(t, "そうすると、 が うまく いかなくなる。", kids.Lines[4].Text)
}

func TestBuild_LongDesireGetsPause(t *testing.T) {
	in := workLifeCloud
	in.B = "週末は家族とゆっくり過ごして心と体を休めたい"
	vm := Build(in, ModeAdult)
	assert.Equal(t, "家族との時間を確保するためには、週末は家族とゆっくり、過ごして心と体を休める必要がある。", vm.Lines[0].Text)
}

func TestAssistLines(t *testing.T) {
	vm := Build(workLifeCloud, ModeAdult)
	lines := vm.AssistLines()
	require.Len(t, lines, 4)
	assert.Equal(t, "1", lines[0].Key)
	assert.Equal(t, vm.Lines[3].Text, lines[3].Text)

	assert.Empty(t, VM{}.AssistLines())
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeKids, ParseMode("kids"))
	assert.Equal(t, ModeKids, ParseMode(" KIDS "))
	assert.Equal(t, ModeAdult, ParseMode("adult"))
	assert.Equal(t, ModeAdult, ParseMode(""))
	assert.Equal(t, ModeAdult, ParseMode("teen"))
}

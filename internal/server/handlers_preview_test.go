package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/phrase"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/title"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

const previewBody = `{
	"a": "家族と良い休日を過ごす",
	"b": "家族の希望を尊重したい",
	"c": "自分の体を休めたい",
	"d": "遊園地に行く",
	"d_prime": "家で寝る"
}`

func TestPreview_DerivesTitleAndDesires(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/preview", previewBody, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	wantTitle := title.Generate(title.Input{
		A:      "家族と良い休日を過ごす",
		B:      phrase.NormalizeDesire("家族の希望を尊重したい"),
		C:      phrase.NormalizeDesire("自分の体を休めたい"),
		D:      "遊園地に行く",
		Dprime: "家で寝る",
	})
	assert.Equal(t, wantTitle.Title, resp.Title)
	assert.True(t, resp.TitleAuto)
	assert.Equal(t, phrase.NormalizeDesire("家族の希望を尊重したい"), resp.BNormalized)
	assert.Equal(t, phrase.NormalizeDesire("自分の体を休めたい"), resp.CNormalized)
	assert.Equal(t, string(readaloud.ModeAdult), resp.Mode)

	want := readaloud.Build(readaloud.Input{
		A:      "家族と良い休日を過ごす",
		B:      "家族の希望を尊重したい",
		C:      "自分の体を休めたい",
		D:      "遊園地に行く",
		Dprime: "家で寝る",
	}, readaloud.ModeAdult)
	assert.Equal(t, want.Lines, resp.Lines)
	for _, line := range resp.Lines {
		assert.Empty(t, line.Reading)
	}
}

func TestPreview_KidsModeWithReading(t *testing.T) {
	env := newTestEnv(t)
	body := strings.Replace(previewBody, "{", `{"mode":"kids","reading":"hiragana",`, 1)

	w := env.do(t, http.MethodPost, "/preview", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(readaloud.ModeKids), resp.Mode)
	require.NotEmpty(t, resp.Lines)
	for _, line := range resp.Lines {
		assert.Equal(t, "hiragana:"+line.SpeakText, line.Reading)
	}
}

func TestPreview_EmptyDraft(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/preview", `{}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, title.Fallback, resp.Title)
}

func TestPreview_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"a":`},
		{"unknown mode", `{"mode":"teen"}`},
		{"unknown reading", `{"reading":"romaji"}`},
		{"field too long", `{"a":"` + strings.Repeat("あ", 201) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/preview", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCloudReadAloud(t *testing.T) {
	env := newTestEnv(t)
	cloud := env.store.addCloud(testCloud())
	path := "/clouds/" + cloud.ID.String() + "/read-aloud"

	var resp struct {
		CloudID uuid.UUID        `json:"cloud_id"`
		Mode    string           `json:"mode"`
		Lines   []readaloud.Line `json:"lines"`
	}

	w := env.do(t, http.MethodGet, path+"?mode=kids&reading=1", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, cloud.ID, resp.CloudID)
	assert.Equal(t, "kids", resp.Mode)
	require.NotEmpty(t, resp.Lines)
	assert.Equal(t, "katakana:"+resp.Lines[0].SpeakText, resp.Lines[0].Reading)

	want := readaloud.Build(readaloud.Input{A: cloud.A, B: cloud.BRaw, C: cloud.CRaw, D: cloud.D, Dprime: cloud.Dprime}, readaloud.ModeKids)
	assert.Len(t, resp.Lines, len(want.Lines))

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/clouds/"+uuid.NewString()+"/read-aloud", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/clouds/42/read-aloud", "", "").Code)
}

func TestCloudReadAloud_HiddenCloud(t *testing.T) {
	env := newTestEnv(t)
	c := testCloud()
	c.Status = "deleted"
	cloud := env.store.addCloud(c)

	w := env.do(t, http.MethodGet, "/clouds/"+cloud.ID.String()+"/read-aloud", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadingParam(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"0":        "",
		"false":    "",
		"no":       "",
		"1":        "katakana",
		"katakana": "katakana",
		"hiragana": "hiragana",
		"HIRAGANA": "hiragana",
		"yes":      "katakana",
	}
	for in, want := range tests {
		assert.Equal(t, want, readingParam(in), "reading=%q", in)
	}
}

func testCloud() db.Cloud {
	return db.Cloud{
		Title:        "遊園地/家で寝るの対立",
		TitleAuto:    true,
		A:            "家族と良い休日を過ごす",
		BRaw:         "家族の希望を尊重したい",
		BNormalized:  phrase.NormalizeDesire("家族の希望を尊重したい"),
		CRaw:         "自分の体を休めたい",
		CNormalized:  phrase.NormalizeDesire("自分の体を休めたい"),
		D:            "遊園地に行く",
		Dprime:       "家で寝る",
		ConflictType: db.ConflictInternal,
		Tags:         []string{"family"},
		Visibility:   db.VisibilityPublic,
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/phrase"
	"github.com/toc-cloud/toc-cloud/internal/title"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

const createBody = `{
	"a": " 家族と良い休日を過ごす ",
	"b": "家族の希望を尊重したい",
	"c": "自分の体を休めたい",
	"d": "遊園地に行く",
	"d_prime": "家で寝る",
	"context": "  ",
	"reason_d_blocks_c": " 遊園地は疲れる ",
	"conflict_type": "internal",
	"tags": ["family", "private"]
}`

func TestCreateCloud(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.tokenFor(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/clouds", createBody, "").Code)

	w := env.do(t, http.MethodPost, "/clouds", createBody, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var cloud db.Cloud
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cloud))
	assert.Equal(t, userID, cloud.OwnerID)

	in := env.store.lastInput
	assert.Equal(t, "家族と良い休日を過ごす", in.A)
	assert.Equal(t, phrase.NormalizeDesire("家族の希望を尊重したい"), in.BNormalized)
	assert.Equal(t, phrase.NormalizeDesire("自分の体を休めたい"), in.CNormalized)
	assert.Equal(t, "家族の希望を尊重したい", in.BRaw)
	assert.True(t, in.TitleAuto)
	assert.Equal(t, title.Generate(title.Input{
		A:      in.A,
		B:      in.BNormalized,
		C:      in.CNormalized,
		D:      in.D,
		Dprime: in.Dprime,
	}).Title, in.Title)
	assert.Nil(t, in.Context, "blank context is dropped")
	require.NotNil(t, in.ReasonDBlocksC)
	assert.Equal(t, "遊園地は疲れる", *in.ReasonDBlocksC)
	assert.Nil(t, in.ReasonDprimeBlocksB)
	assert.Equal(t, db.ConflictInternal, in.ConflictType)
}

func TestCreateCloud_UserTitle(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.tokenFor(t)
	body := strings.Replace(createBody, "{", `{"title":" 休日のジレンマ ",`, 1)

	w := env.do(t, http.MethodPost, "/clouds", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, "休日のジレンマ", env.store.lastInput.Title)
	assert.False(t, env.store.lastInput.TitleAuto)
}

func TestCreateCloud_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.tokenFor(t)

	tests := []struct {
		name string
		edit func(*types.CreateCloudRequest)
	}{
		{"missing A", func(r *types.CreateCloudRequest) { r.A = "" }},
		{"bad conflict type", func(r *types.CreateCloudRequest) { r.ConflictType = "both" }},
		{"unknown tag", func(r *types.CreateCloudRequest) { r.Tags = []string{"sports"} }},
		{"duplicate tag", func(r *types.CreateCloudRequest) { r.Tags = []string{"work", "work"} }},
		{"bad visibility", func(r *types.CreateCloudRequest) { r.Visibility = "private" }},
		{"title too long", func(r *types.CreateCloudRequest) { r.Title = strings.Repeat("題", 61) }},
		{"whitespace-only fields", func(r *types.CreateCloudRequest) {
			r.A, r.B, r.C, r.D, r.Dprime = " ", " ", " ", " ", " "
		}},
		{"ideographic-space D'", func(r *types.CreateCloudRequest) { r.Dprime = "\u3000" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := types.CreateCloudRequest{
				A: "a", B: "b", C: "c", D: "d", Dprime: "e",
				ConflictType: "external",
			}
			tt.edit(&req)
			body, err := json.Marshal(req)
			require.NoError(t, err)

			w := env.do(t, http.MethodPost, "/clouds", string(body), token)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, env.store.clouds)
}

func TestParseCloudFilter(t *testing.T) {
	tests := []struct {
		query   string
		want    db.CloudFilter
		wantErr string
	}{
		{
			query: "",
			want:  db.CloudFilter{Mode: db.ListNew, Limit: db.DefaultListLimit},
		},
		{
			query: "conflict_type=external&tags=work,+family&mode=hot&q=+holiday+&limit=5",
			want: db.CloudFilter{
				ConflictType: db.ConflictExternal,
				Tags:         []string{"work", "family"},
				Mode:         db.ListHot,
				Query:        "holiday",
				Limit:        5,
			},
		},
		{query: "conflict_type=both", wantErr: "conflict_type"},
		{query: "tags=work,sports", wantErr: "sports"},
		{query: "mode=top", wantErr: "mode"},
		{query: "limit=0", wantErr: "limit"},
		{query: "limit=101", wantErr: "limit"},
		{query: "limit=ten", wantErr: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := parseCloudFilter(httptest.NewRequest(http.MethodGet, "/clouds?"+tt.query, nil))
			if tt.wantErr != "" {
				var ve *ErrValidation
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseCloudFilter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListClouds(t *testing.T) {
	env := newTestEnv(t)
	env.store.addCloud(testCloud())
	unlisted := testCloud()
	unlisted.Visibility = db.VisibilityUnlisted
	hidden := env.store.addCloud(unlisted)

	w := env.do(t, http.MethodGet, "/clouds?mode=hot", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Clouds []db.Cloud `json:"clouds"`
		Count  int        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, db.ListHot, env.store.listed.Mode)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/clouds?mode=top", "", "").Code)

	// unlisted clouds are still reachable by id
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/clouds/"+hidden.ID.String(), "", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/clouds/"+uuid.NewString(), "", "").Code)
}

func TestReactions(t *testing.T) {
	env := newTestEnv(t)
	cloud := env.store.addCloud(testCloud())
	_, alice := env.tokenFor(t)
	_, bob := env.tokenFor(t)
	rating := "/clouds/" + cloud.ID.String() + "/rating"

	steps := []struct {
		token string
		body  string
		want  types.ReactionResponse
	}{
		{alice, `{"on":true}`, types.ReactionResponse{On: true, Count: 1}},
		{alice, `{"on":true}`, types.ReactionResponse{On: true, Count: 1}},
		{bob, `{"on":true}`, types.ReactionResponse{On: true, Count: 2}},
		{alice, `{"on":false}`, types.ReactionResponse{On: false, Count: 1}},
		{alice, `{"on":false}`, types.ReactionResponse{On: false, Count: 1}},
	}
	for i, step := range steps {
		w := env.do(t, http.MethodPut, rating, step.body, step.token)
		require.Equal(t, http.StatusOK, w.Code, "step %d: %s", i, w.Body.String())

		var got types.ReactionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, step.want, got, "step %d", i)
	}

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, rating, `{}`, alice).Code, "on is required")
	assert.Equal(t, http.StatusNotFound,
		env.do(t, http.MethodPut, "/clouds/"+uuid.NewString()+"/rating", `{"on":true}`, alice).Code)
}

func TestBookmarksAndViewerState(t *testing.T) {
	env := newTestEnv(t)
	cloud := env.store.addCloud(testCloud())
	env.store.addCloud(testCloud())
	_, token := env.tokenFor(t)
	base := "/clouds/" + cloud.ID.String()

	w := env.do(t, http.MethodPut, base+"/bookmark", `{"on":true}`, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, base+"/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var state db.ViewerState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, db.ViewerState{Bookmarked: true}, state)

	w = env.do(t, http.MethodGet, "/me/bookmarks", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Clouds []db.Cloud `json:"clouds"`
		Count  int        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, cloud.ID, resp.Clouds[0].ID)
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCloudRequest() CreateCloudRequest {
	return CreateCloudRequest{
		A:            "良い仕事をする",
		B:            "家族との時間を持つ",
		C:            "上司に認められたい",
		D:            "定時で退社する",
		Dprime:       "残業する",
		ConflictType: "internal",
		Tags:         []string{"work", "family"},
	}
}

func TestCreateCloudRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *CreateCloudRequest)
		wantErr string
	}{
		{name: "valid request", mutate: func(*CreateCloudRequest) {}},
		{name: "missing A", mutate: func(r *CreateCloudRequest) { r.A = "" }, wantErr: "required"},
		{name: "missing D'", mutate: func(r *CreateCloudRequest) { r.Dprime = "" }, wantErr: "required"},
		{name: "blank B", mutate: func(r *CreateCloudRequest) { r.B = "   " }, wantErr: "notblank"},
		{name: "ideographic-space D", mutate: func(r *CreateCloudRequest) { r.D = "\u3000\u3000" }, wantErr: "notblank"},
		{name: "unknown conflict type", mutate: func(r *CreateCloudRequest) { r.ConflictType = "both" }, wantErr: "oneof"},
		{name: "unknown tag", mutate: func(r *CreateCloudRequest) { r.Tags = []string{"hobby"} }, wantErr: "oneof"},
		{name: "duplicate tags", mutate: func(r *CreateCloudRequest) { r.Tags = []string{"work", "work"} }, wantErr: "unique"},
		{name: "unlisted visibility", mutate: func(r *CreateCloudRequest) { r.Visibility = "unlisted" }},
		{name: "private visibility", mutate: func(r *CreateCloudRequest) { r.Visibility = "private" }, wantErr: "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCloudRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPreviewRequest_Validation(t *testing.T) {
	req := PreviewRequest{CloudFields: CloudFields{A: "良い仕事をする"}, Mode: "kids", Reading: "hiragana"}
	require.NoError(t, req.Validate())

	req.Mode = "teen"
	require.Error(t, req.Validate())

	req.Mode = ""
	req.Reading = "romaji"
	require.Error(t, req.Validate())
}

func TestPreviewRequest_FlatJSON(t *testing.T) {
	var req PreviewRequest
	require.NoError(t, json.Unmarshal([]byte(`{"a":"A","d_prime":"D'","mode":"adult"}`), &req))
	assert.Equal(t, "A", req.A)
	assert.Equal(t, "D'", req.Dprime)
	assert.Equal(t, "adult", req.Mode)
}

func TestReactionRequest_RequiresState(t *testing.T) {
	var req ReactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	require.Error(t, req.Validate())

	require.NoError(t, json.Unmarshal([]byte(`{"on":false}`), &req))
	require.NoError(t, req.Validate())
	assert.False(t, *req.On)
}

func TestSolutionRequest_Validation(t *testing.T) {
	req := SolutionRequest{Body: "毎週金曜だけ定時で帰ると決める"}
	require.NoError(t, req.Validate())

	req.Body = ""
	require.Error(t, req.Validate())
}

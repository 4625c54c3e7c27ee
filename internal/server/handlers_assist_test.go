package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toc-cloud/toc-cloud/internal/assist"
)

const assistBody = `{
	"A": "良い休日",
	"B": "家族の希望を尊重する",
	"C": "体を休める",
	"D": "遊園地に行く",
	"Dprime": "家で寝る",
	"lines": [{"key": "A", "text": "良い休日のために"}]
}`

func TestAssist_Success(t *testing.T) {
	env := newTestEnv(t)
	comments := assist.EmptyComments()
	comments["A"] = []assist.Comment{{Severity: assist.SeverityWarn, Text: "目標が曖昧です"}}
	env.linter.resp = &assist.Response{Comments: comments}

	w := env.do(t, http.MethodPost, "/assist", assistBody, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp assist.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comments["A"], 1)
	assert.Equal(t, "目標が曖昧です", resp.Comments["A"][0].Text)

	assert.Equal(t, "家で寝る", env.linter.got.Dprime)
	require.Len(t, env.linter.got.Lines, 1)
	assert.Equal(t, "A", env.linter.got.Lines[0].Key)
	assert.True(t, env.linter.hadDead, "lint should run under a deadline")
}

func TestAssist_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "bad request",
			err:        &assist.RequestError{Field: "lines", Message: "at most 4 lines"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "at most 4 lines",
		},
		{
			name:       "service failure",
			err:        &assist.ServiceError{Message: "completion request failed", Cause: errors.New("429 Too Many Requests")},
			wantStatus: http.StatusBadGateway,
			wantMsg:    "completion service error",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.linter.err = tt.err

			w := env.do(t, http.MethodPost, "/assist", assistBody, "")
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.wantMsg)
		})
	}
}

func TestAssist_NotConfigured(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.Linter = nil })

	w := env.do(t, http.MethodPost, "/assist", assistBody, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAssist_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/assist", `{"lines": "nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

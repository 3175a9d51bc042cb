package reaction

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postReact(t *testing.T, h *HTTPHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/questions/react", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.React(rec, req)
	return rec
}

func TestReactRecordsReaction(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, staticResolver{id: "u1"}, nil)
	h := NewHTTPHandlers(svc, zerolog.Nop())

	rec := postReact(t, h, `{"questionId":"q1","reaction":"UPVOTE","timeSpent":2.5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, Upvote, store.interactions["u1|q1"].Reaction)
}

func TestReactValidation(t *testing.T) {
	svc := newTestService(newMemStore(), staticResolver{id: "u1"}, nil)
	h := NewHTTPHandlers(svc, zerolog.Nop())

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing question id", `{"reaction":"UPVOTE"}`},
		{"missing reaction", `{"questionId":"q1"}`},
		{"unknown reaction", `{"questionId":"q1","reaction":"LIKE"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postReact(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReactRejectsNonPost(t *testing.T) {
	svc := newTestService(newMemStore(), staticResolver{id: "u1"}, nil)
	h := NewHTTPHandlers(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/v1/questions/react", nil)
	rec := httptest.NewRecorder()
	h.React(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReactSoftFailureStaysOK(t *testing.T) {
	store := newMemStore()
	store.txErr = assert.AnError
	svc := newTestService(store, staticResolver{id: "u1"}, nil)
	h := NewHTTPHandlers(svc, zerolog.Nop())

	rec := postReact(t, h, `{"questionId":"q1","reaction":"SKIP"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
}

package common

import (
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

func TestQueryWindow(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  *dataset.Window
	}{
		{"none", "", nil},
		{"both", "age_lo=30&age_hi=60", &dataset.Window{Lo: 30, Hi: 60}},
		{"low only", "age_lo=30", &dataset.Window{Lo: 30, Hi: math.Inf(1)}},
		{"invalid high", "age_lo=30&age_hi=x", &dataset.Window{Lo: 30, Hi: math.Inf(1)}},
		{"all invalid", "age_lo=&age_hi=NaN", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, QueryWindow(q, "age"))
		})
	}
}

func TestSignalWindow(t *testing.T) {
	lo, hi := 10.0, 20.0

	assert.Nil(t, SignalWindow(nil, nil))
	assert.Equal(t, &dataset.Window{Lo: 10, Hi: 20}, SignalWindow(&lo, &hi))
	assert.Equal(t, &dataset.Window{Lo: math.Inf(-1), Hi: 20}, SignalWindow(nil, &hi))
}

func TestSelectionRoundTrip(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
	type sel struct {
		Search string `json:"search"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/health/filter", nil)
	require.NoError(t, SaveSelection(rec, req, store, "health", sel{Search: "chol"}))

	next := httptest.NewRequest(http.MethodGet, "/health", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}

	var got sel
	require.True(t, LoadSelection(next, store, "health", &got))
	assert.Equal(t, "chol", got.Search)

	assert.False(t, LoadSelection(next, store, "sales", &got))
	assert.False(t, LoadSelection(httptest.NewRequest(http.MethodGet, "/", nil), nil, "health", &got))
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()

	assert.True(t, SamePath(filepath.Join(dir, "a", "..", "x.csv"), filepath.Join(dir, "x.csv")))
	assert.False(t, SamePath(filepath.Join(dir, "x.csv"), filepath.Join(dir, "y.csv")))
}

func TestChangedPath(t *testing.T) {
	dir := t.TempDir()
	health := filepath.Join(dir, "x.csv")
	sales := filepath.Join(dir, "y.csv")

	assert.True(t, ChangedPath([]string{sales, health}, health))
	assert.False(t, ChangedPath([]string{sales}, health))
	assert.False(t, ChangedPath(nil, health))
}

package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/SB-Backend/internal/config"
	"github.com/EmpoweredVote/SB-Backend/internal/metrics"
	"github.com/EmpoweredVote/SB-Backend/internal/testdb"
)

func TestBuild(t *testing.T) {
	cfg := config.Default()
	cfg.DatabaseDriver = config.DriverSQLite
	h, err := Build(testdb.Open(t), cfg, nil, metrics.New())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	for path, want := range map[string]int{
		"/":                 http.StatusOK,
		"/news":             http.StatusOK,
		"/resolutions":      http.StatusOK,
		"/ordinances":       http.StatusOK,
		"/members":          http.StatusOK,
		"/committees":       http.StatusOK,
		"/slides":           http.StatusOK,
		"/metrics":          http.StatusOK,
		"/auth/me":          http.StatusUnauthorized,
		"/news/not-an-id":   http.StatusNotFound,
		"/members?page=0.5": http.StatusBadRequest,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, "%s: %s", path, body)
	}
}

func TestEmptyListShape(t *testing.T) {
	cfg := config.Default()
	h, err := Build(testdb.Open(t), cfg, nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"page_size":6,"total_pages":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

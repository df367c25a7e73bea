package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

var _ query.Observer = (*Metrics)(nil)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/news/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "News item not found", http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/news/{id}", "GET", "404")))
}

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch("news_items", true, 5*time.Millisecond, nil)
	m.ObserveFetch("news_items", false, 5*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchErrors.WithLabelValues("news_items")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.fetches))
}

func TestHandlerExposes(t *testing.T) {
	m := New()
	m.ObserveFetch("slides", false, time.Millisecond, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "council_list_fetch_duration_seconds"))
}

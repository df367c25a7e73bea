package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ListRequest reads q, page and page_size from the query string.
func ListRequest(r *http.Request) (query.Request, error) {
	v := r.URL.Query()
	req := query.Request{Search: v.Get("q")}
	var err error
	if req.Page, err = intParam(v.Get("page")); err != nil {
		return req, fmt.Errorf("invalid page: %w", err)
	}
	if req.PageSize, err = intParam(v.Get("page_size")); err != nil {
		return req, fmt.Errorf("invalid page_size: %w", err)
	}
	return req, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a positive integer", s)
	}
	return n, nil
}

// TriParam reads a tri-state filter; absent means unset.
func TriParam(r *http.Request, name string) (query.TriState, error) {
	t, err := query.ParseTriState(r.URL.Query().Get(name))
	if err != nil {
		return query.Unset, fmt.Errorf("invalid %s: %w", name, err)
	}
	return t, nil
}

// DateParam reads a YYYY-MM-DD value; absent means nil.
func DateParam(r *http.Request, name string) (*time.Time, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected YYYY-MM-DD", name)
	}
	return &t, nil
}

// IDParam parses a record id. Malformed ids can never match a record, so
// callers treat ok=false as not found.
func IDParam(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// AddServerTiming appends one Server-Timing metric, e.g. "db;dur=12.3".
func AddServerTiming(w http.ResponseWriter, name string, d time.Duration) {
	w.Header().Add("Server-Timing", fmt.Sprintf("%s;dur=%.1f", name, float64(d.Microseconds())/1000))
}

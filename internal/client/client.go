// Package client talks to the council API. A Client is built once by the
// caller and passed to whatever needs it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

// ErrNotFound is matched by errors.Is for 404 responses.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Jar carries the session.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger logs each request and response at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l.With("component", "client") }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		base: u,
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Params is one list request. Filters holds the endpoint-specific query
// parameters; empty values are left out.
type Params struct {
	Search   string
	Page     int
	PageSize int
	Filters  map[string]string
}

// Equal reports whether two requests would fetch the same page.
func (p Params) Equal(o Params) bool {
	if p.Search != o.Search || p.Page != o.Page || p.PageSize != o.PageSize || len(p.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range p.Filters {
		if w, ok := o.Filters[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func (p Params) values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(p.Search); s != "" {
		v.Set("q", s)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	for k, val := range p.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// List fetches one page of T from path.
func List[T any](ctx context.Context, c *Client, path string, p Params) (query.Page[T], error) {
	var page query.Page[T]
	err := c.do(ctx, http.MethodGet, path, p.values(), nil, &page)
	return page, err
}

// Get fetches one record of T.
func Get[T any](ctx context.Context, c *Client, path, id string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path+"/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.log.Debug("request", "method", method, "url", u.String())
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("response", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

package client

import (
	"context"
	"net/http"

	"github.com/EmpoweredVote/SB-Backend/internal/auth"
	"github.com/EmpoweredVote/SB-Backend/internal/committees"
	"github.com/EmpoweredVote/SB-Backend/internal/members"
	"github.com/EmpoweredVote/SB-Backend/internal/news"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/resolutions"
	"github.com/EmpoweredVote/SB-Backend/internal/slides"
)

// Endpoint paths.
const (
	PathNews        = "/news"
	PathResolutions = "/resolutions"
	PathOrdinances  = "/ordinances"
	PathMembers     = "/members"
	PathCommittees  = "/committees"
	PathSlides      = "/slides"
)

func (c *Client) News(ctx context.Context, p Params) (query.Page[news.NewsItem], error) {
	return List[news.NewsItem](ctx, c, PathNews, p)
}

func (c *Client) NewsItem(ctx context.Context, id string) (news.NewsItem, error) {
	return Get[news.NewsItem](ctx, c, PathNews, id)
}

// SubmitNews posts form; the client must be logged in as an admin.
func (c *Client) SubmitNews(ctx context.Context, form news.NewsForm) (news.NewsItem, error) {
	var out news.NewsItem
	err := c.do(ctx, http.MethodPost, PathNews, nil, form, &out)
	return out, err
}

func (c *Client) Resolutions(ctx context.Context, p Params) (query.Page[resolutions.Resolution], error) {
	return List[resolutions.Resolution](ctx, c, PathResolutions, p)
}

func (c *Client) Resolution(ctx context.Context, id string) (resolutions.Resolution, error) {
	return Get[resolutions.Resolution](ctx, c, PathResolutions, id)
}

func (c *Client) Ordinances(ctx context.Context, p Params) (query.Page[resolutions.Resolution], error) {
	return List[resolutions.Resolution](ctx, c, PathOrdinances, p)
}

func (c *Client) Ordinance(ctx context.Context, id string) (resolutions.Resolution, error) {
	return Get[resolutions.Resolution](ctx, c, PathOrdinances, id)
}

func (c *Client) Members(ctx context.Context, p Params) (query.Page[members.Member], error) {
	return List[members.Member](ctx, c, PathMembers, p)
}

func (c *Client) Member(ctx context.Context, id string) (members.Member, error) {
	return Get[members.Member](ctx, c, PathMembers, id)
}

func (c *Client) Committees(ctx context.Context, p Params) (query.Page[committees.Committee], error) {
	return List[committees.Committee](ctx, c, PathCommittees, p)
}

func (c *Client) Committee(ctx context.Context, id string) (committees.Committee, error) {
	return Get[committees.Committee](ctx, c, PathCommittees, id)
}

func (c *Client) Slides(ctx context.Context, p Params) (query.Page[slides.Slide], error) {
	return List[slides.Slide](ctx, c, PathSlides, p)
}

// Login opens a session; the cookie is kept in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (auth.MeResponse, error) {
	var out auth.MeResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"username": username,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (auth.MeResponse, error) {
	var out auth.MeResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// Role asks "what is this user's role".
func (c *Client) Role(ctx context.Context) (string, error) {
	var out auth.RoleResponse
	err := c.do(ctx, http.MethodGet, "/auth/role", nil, nil, &out)
	return out.Role, err
}

// IsAdmin asks "is this user an admin".
func (c *Client) IsAdmin(ctx context.Context) (bool, error) {
	var out auth.AdminResponse
	err := c.do(ctx, http.MethodGet, "/auth/admin", nil, nil, &out)
	return out.IsAdmin, err
}

package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/auth"
	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
	"github.com/EmpoweredVote/SB-Backend/internal/testdb"
)

// testEnv is one server over a private in-memory database.
type testEnv struct {
	db     *gorm.DB
	module *auth.Module
	server *httptest.Server
}

func newEnv(t *testing.T, opts auth.Options) *testEnv {
	t.Helper()
	d := testdb.Open(t)
	module, err := auth.Init(d, opts)
	if err != nil {
		t.Fatalf("auth.Init: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(nil))
	r.Mount("/auth", module.SetupRoutes())

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return &testEnv{db: d, module: module, server: server}
}

// createTestUser inserts a unique user and returns the username and plaintext password.
func (e *testEnv) createTestUser(t *testing.T, role string) (username, password string) {
	t.Helper()
	username = fmt.Sprintf("testuser_%s", uuid.New().String()[:8])
	password = "TestPass123!"
	if _, err := e.module.Store.CreateUser(username, password, role); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return username, password
}

// newClientWithJar returns an http.Client with a fresh cookie jar that automatically
// carries cookies between requests.
func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

func (e *testEnv) login(t *testing.T, client *http.Client, username, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := client.Post(e.server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	return resp
}

func (e *testEnv) get(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

// readBody reads and returns the response body as a string, draining and closing it.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// TestLoginReturnsSessionCookie verifies that valid credentials return 200, a
// session_id cookie and a JSON body with user_id and username.
func TestLoginReturnsSessionCookie(t *testing.T) {
	env := newEnv(t, auth.Options{})
	username, password := env.createTestUser(t, "")
	client := newClientWithJar(t)

	resp := env.login(t, client, username, password)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}
	if setCookie := resp.Header.Get("Set-Cookie"); !strings.Contains(setCookie, "session_id") {
		t.Errorf("expected Set-Cookie to contain 'session_id', got: %q", setCookie)
	}

	var result map[string]string
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("invalid JSON body: %s", body)
	}
	if result["user_id"] == "" {
		t.Error("expected user_id in response body")
	}
	if result["username"] != username {
		t.Errorf("expected username %q, got %q", username, result["username"])
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newEnv(t, auth.Options{})
	username, _ := env.createTestUser(t, "")

	resp := env.login(t, newClientWithJar(t), username, "wrong-password")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d; body: %s", resp.StatusCode, body)
	}

	resp = env.login(t, newClientWithJar(t), "nobody", "whatever")
	_ = readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", resp.StatusCode)
	}
}

// TestSessionPersistsAcrossRequests verifies that after login, GET /auth/me
// returns the user on repeated calls with the same cookie jar.
func TestSessionPersistsAcrossRequests(t *testing.T) {
	env := newEnv(t, auth.Options{})
	username, password := env.createTestUser(t, "")
	client := newClientWithJar(t)

	loginResp := env.login(t, client, username, password)
	if body := readBody(t, loginResp); loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, body)
	}

	for i := 0; i < 2; i++ {
		resp, body := env.get(t, client, "/auth/me")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 from /auth/me, got %d; body: %s", resp.StatusCode, body)
		}
		var me map[string]any
		if err := json.Unmarshal([]byte(body), &me); err != nil {
			t.Fatalf("invalid JSON body: %s", body)
		}
		if me["username"] != username {
			t.Errorf("expected username %q from /auth/me, got %q", username, me["username"])
		}
	}
}

// TestLogoutClearsSession verifies login, logout, then /auth/me returns 401.
func TestLogoutClearsSession(t *testing.T) {
	env := newEnv(t, auth.Options{})
	username, password := env.createTestUser(t, "")
	client := newClientWithJar(t)

	_ = readBody(t, env.login(t, client, username, password))

	logoutResp, err := client.Post(env.server.URL+"/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /auth/logout: %v", err)
	}
	if body := readBody(t, logoutResp); logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /auth/logout, got %d; body: %s", logoutResp.StatusCode, body)
	}

	resp, body := env.get(t, client, "/auth/me")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 from /auth/me after logout, got %d; body: %s", resp.StatusCode, body)
	}
}

// TestExpiredSessionRejected verifies that a session expired in the database
// is rejected with "Session expired".
func TestExpiredSessionRejected(t *testing.T) {
	env := newEnv(t, auth.Options{})
	username, password := env.createTestUser(t, "")
	client := newClientWithJar(t)

	loginBody := readBody(t, env.login(t, client, username, password))
	var loginResult map[string]string
	if err := json.Unmarshal([]byte(loginBody), &loginResult); err != nil {
		t.Fatalf("invalid login response JSON: %s", loginBody)
	}

	if err := env.db.Model(&auth.Session{}).
		Where("user_id = ?", loginResult["user_id"]).
		Update("expires_at", time.Now().Add(-1*time.Hour)).Error; err != nil {
		t.Fatalf("failed to expire session: %v", err)
	}

	resp, body := env.get(t, client, "/auth/me")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with expired session, got %d; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "Session expired") {
		t.Errorf("expected body to contain %q, got: %q", "Session expired", body)
	}
}

// TestRoleAndAdminChecks covers the two authorization questions the site asks.
func TestRoleAndAdminChecks(t *testing.T) {
	env := newEnv(t, auth.Options{})
	cases := []struct {
		role      string
		wantRole  string
		wantAdmin bool
	}{
		{role: "", wantRole: "user", wantAdmin: false},
		{role: "admin", wantRole: "admin", wantAdmin: true},
	}
	for _, tc := range cases {
		username, password := env.createTestUser(t, tc.role)
		client := newClientWithJar(t)
		_ = readBody(t, env.login(t, client, username, password))

		resp, body := env.get(t, client, "/auth/role")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("role: expected 200, got %d; body: %s", resp.StatusCode, body)
		}
		var role auth.RoleResponse
		if err := json.Unmarshal([]byte(body), &role); err != nil {
			t.Fatalf("invalid JSON body: %s", body)
		}
		if role.Role != tc.wantRole {
			t.Errorf("expected role %q, got %q", tc.wantRole, role.Role)
		}

		resp, body = env.get(t, client, "/auth/admin")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("admin: expected 200, got %d; body: %s", resp.StatusCode, body)
		}
		var admin auth.AdminResponse
		if err := json.Unmarshal([]byte(body), &admin); err != nil {
			t.Fatalf("invalid JSON body: %s", body)
		}
		if admin.IsAdmin != tc.wantAdmin {
			t.Errorf("role %q: expected is_admin=%v, got %v", tc.role, tc.wantAdmin, admin.IsAdmin)
		}
	}
}

func TestRoleRequiresSession(t *testing.T) {
	env := newEnv(t, auth.Options{})
	resp, _ := env.get(t, newClientWithJar(t), "/auth/role")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLoginRateLimited(t *testing.T) {
	env := newEnv(t, auth.Options{Limiter: middleware.NewRateLimiter(0.001, 1)})
	username, password := env.createTestUser(t, "")

	first := env.login(t, newClientWithJar(t), username, password)
	_ = readBody(t, first)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.StatusCode)
	}
	second := env.login(t, newClientWithJar(t), username, password)
	_ = readBody(t, second)
	if second.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.StatusCode)
	}
}

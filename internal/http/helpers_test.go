package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	httpapi "github.com/taskrail/taskrail/internal/http"
	"github.com/taskrail/taskrail/internal/service"
	"github.com/taskrail/taskrail/internal/store/drivers/sqlite"
	"github.com/taskrail/taskrail/pkg/slogx"
	"github.com/taskrail/taskrail/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "tester@example.com"
	testPassword = "correct-horse"
)

// newTestServer spins up the full router over a throwaway SQLite database.
// Each caller gets fresh rate limit buckets, so tests never bleed into each
// other.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.NewStore("file:" + dbPath + "?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	access, err := tokenx.NewCodec([]byte("test-access-secret"), tokenx.AccessTokenTTL)
	require.NoError(t, err)
	refresh, err := tokenx.NewCodec([]byte("test-refresh-secret"), tokenx.RefreshTokenTTL)
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "taskrail-test", Level: "error", Format: "text"})

	router := httpapi.NewRouter(access, "test", st, logger, "", false)
	router.AuthService = &service.AuthService{Store: st, Access: access, Refresh: refresh}
	router.TaskService = &service.TaskService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON fires one request and decodes the response body into out (when
// non-nil). It returns the raw response for header and cookie assertions.
func doJSON(t *testing.T, method, url string, body any, out any, mutate ...func(*http.Request)) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(payload) > 0 {
		require.NoError(t, json.Unmarshal(payload, out), "body: %s", payload)
	}
	return resp
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(c)
	}
}

// registerAndLogin creates an account and returns the access token plus the
// refresh cookie from the login response.
func registerAndLogin(t *testing.T, baseURL string) (string, *http.Cookie) {
	t.Helper()

	creds := map[string]string{"email": testEmail, "password": testPassword}
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/register", creds, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	resp = doJSON(t, http.MethodPost, baseURL+"/auth/login", creds, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, login.AccessToken)

	cookie := refreshCookieFrom(t, resp)
	require.NotNil(t, cookie)
	return login.AccessToken, cookie
}

func refreshCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

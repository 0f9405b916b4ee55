package taskrail_test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	httpapi "github.com/taskrail/taskrail/internal/http"
	"github.com/taskrail/taskrail/internal/service"
	"github.com/taskrail/taskrail/internal/store/drivers/sqlite"
	"github.com/taskrail/taskrail/pkg/slogx"
	"github.com/taskrail/taskrail/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests drive the real router (store, services, middleware)
 * through the public SDK over an in-process HTTP server.
 */

const (
	testEmail    = "e2e@example.com"
	testPassword = "end-to-end-pass"
)

// startServer boots the full stack. The access token TTL is a parameter so
// the silent refresh path can be exercised without waiting fifteen minutes.
func startServer(t *testing.T, accessTTL time.Duration) *httptest.Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "e2e.db")
	st, err := sqlite.NewStore("file:" + dbPath + "?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	access, err := tokenx.NewCodec([]byte("e2e-access-secret"), accessTTL)
	require.NoError(t, err)
	refresh, err := tokenx.NewCodec([]byte("e2e-refresh-secret"), tokenx.RefreshTokenTTL)
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "taskrail-e2e", Level: "error", Format: "text"})

	router := httpapi.NewRouter(access, "e2e", st, logger, "", false)
	router.AuthService = &service.AuthService{Store: st, Access: access, Refresh: refresh}
	router.TaskService = &service.TaskService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

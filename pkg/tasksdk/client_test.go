package tasksdk

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeAPI is a scripted server: task endpoints accept only goodToken, and
// refresh mints mintedToken (defaulting to goodToken when empty).
type fakeAPI struct {
	goodToken    string
	mintedToken  string
	refreshDelay time.Duration
	refreshFails bool

	refreshCalls atomic.Int64
	taskCalls    atomic.Int64
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		time.Sleep(f.refreshDelay)
		if f.refreshFails {
			ErrInvalidRefreshToken.WriteError(w)
			return
		}
		minted := f.mintedToken
		if minted == "" {
			minted = f.goodToken
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"` + minted + `"}`))
	})

	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		f.taskCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+f.goodToken {
			NewAPIError(http.StatusUnauthorized, "Invalid or expired access token").WriteError(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"page":1,"pageSize":10,"total":0}`))
	})

	return mux
}

func newFakeClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func TestSilentRefreshOnExpiry(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{goodToken: "fresh"}
	client := newFakeClient(t, api)
	client.setAccessToken("stale")

	_, err := client.ListTasks(t.Context(), ListTasksParams{})
	require.NoError(t, err)

	require.EqualValues(t, 1, api.refreshCalls.Load())
	require.EqualValues(t, 2, api.taskCalls.Load())
	require.Equal(t, "fresh", client.AccessToken())
}

func TestNoRefreshWhenTokenValid(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{goodToken: "fresh"}
	client := newFakeClient(t, api)
	client.setAccessToken("fresh")

	_, err := client.ListTasks(t.Context(), ListTasksParams{})
	require.NoError(t, err)

	require.EqualValues(t, 0, api.refreshCalls.Load())
	require.EqualValues(t, 1, api.taskCalls.Load())
}

// A request that still comes back 401 after one refresh must not loop: one
// retry, then the error surfaces.
func TestRetryBoundIsOne(t *testing.T) {
	t.Parallel()

	// The refresh "succeeds" but mints a token the task endpoint still
	// rejects; an unbounded client would retry forever.
	api := &fakeAPI{goodToken: "accepted", mintedToken: "still-stale"}
	client := newFakeClient(t, api)
	client.setAccessToken("stale")

	_, err := client.ListTasks(t.Context(), ListTasksParams{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.EqualValues(t, 1, api.refreshCalls.Load())
	require.EqualValues(t, 2, api.taskCalls.Load())
}

func TestRefreshFailureSurfaces(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{goodToken: "fresh", refreshFails: true}
	client := newFakeClient(t, api)
	client.setAccessToken("stale")

	_, err := client.ListTasks(t.Context(), ListTasksParams{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid or expired refresh token", apiErr.Message)

	// The original request is not retried after a failed refresh.
	require.EqualValues(t, 1, api.taskCalls.Load())
	require.Empty(t, client.AccessToken())
}

func TestConcurrentExpiryCoalesces(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{goodToken: "fresh", refreshDelay: 250 * time.Millisecond}
	client := newFakeClient(t, api)
	client.setAccessToken("stale")

	const callers = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = client.ListTasks(t.Context(), ListTasksParams{})
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}

	// All callers hit the stale 401 inside the refresh window, so exactly one
	// refresh round-trip serves everyone.
	require.EqualValues(t, 1, api.refreshCalls.Load())
}

func TestErrorParsing(t *testing.T) {
	t.Parallel()

	t.Run("well-formed message body", func(t *testing.T) {
		err := parseErrorResponse(http.StatusNotFound, []byte(`{"message":"Task not found"}`))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		require.Equal(t, "Task not found", apiErr.Message)
	})

	t.Run("falls back to status text", func(t *testing.T) {
		err := parseErrorResponse(http.StatusBadGateway, []byte("<html>nope</html>"))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
	})
}

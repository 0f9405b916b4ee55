package http

import (
	"net/http"
	"time"

	"github.com/taskrail/taskrail/internal/store"
	"github.com/taskrail/taskrail/pkg/httpx"
	"github.com/taskrail/taskrail/pkg/tasksdk"
	"github.com/taskrail/taskrail/pkg/tokenx"
)

// ReadyzHandler is the readiness probe. It checks the database and the token
// signer, answering 503 when either is unavailable.
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	codec *tokenx.Codec,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &tasksdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if codec == nil || !codec.Ready() {
			checks.Signer = "error: no signing secret loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := tasksdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}

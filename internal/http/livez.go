package http

import (
	"net/http"
	"time"

	"github.com/taskrail/taskrail/pkg/httpx"
	"github.com/taskrail/taskrail/pkg/tasksdk"
)

// LivezHandler is the liveness probe. It returns 200 whenever the process is
// up, with uptime and version for operators.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := tasksdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}

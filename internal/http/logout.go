package http

import (
	"net/http"

	"github.com/taskrail/taskrail/pkg/httpx"
	"github.com/taskrail/taskrail/pkg/tasksdk"
)

type LogoutHandler struct {
	SecureCookies bool
}

// ServeHTTP ends the session by expiring the refresh cookie. There is no
// server-side session to tear down, so the handler needs no authentication
// and always succeeds; already-issued access tokens simply age out.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clearRefreshCookie(w, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tasksdk.MessageResponse{Message: "Logged out"})
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskrail/taskrail/internal/service"
	"github.com/taskrail/taskrail/pkg/httpx"
	"github.com/taskrail/taskrail/pkg/slogx"
	"github.com/taskrail/taskrail/pkg/tasksdk"
)

type LoginHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

// ServeHTTP verifies credentials and starts a session. The access token goes
// in the body for the client to hold in memory; the refresh token goes only
// in the HttpOnly cookie.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req tasksdk.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		tasksdk.ErrInvalidJSONBody.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		tasksdk.ErrMissingEmailPassword.WriteError(w)
		return
	}

	user, pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			tasksdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		tasksdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("user logged in", "user_id", user.ID)
	setRefreshCookie(w, pair.RefreshToken, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tasksdk.LoginResponse{
		AccessToken: pair.AccessToken,
		User:        tasksdk.UserInfo{ID: user.ID, Email: user.Email},
	})
}

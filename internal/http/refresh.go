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

type RefreshHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

// ServeHTTP rotates the token pair. The refresh token is read from the
// cookie first; a JSON body field is accepted as a fallback for clients
// without cookie support. Every successful call re-sets the cookie with a
// freshly minted token.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := refreshTokenFromRequest(r)
	if token == "" {
		tasksdk.ErrMissingRefreshToken.WriteError(w)
		return
	}

	pair, err := h.AuthService.Rotate(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			// Forget the dead cookie so the client stops replaying it.
			clearRefreshCookie(w, h.SecureCookies)
			tasksdk.ErrInvalidRefreshToken.WriteError(w)
			return
		}
		log.Error("token rotation failed", "err", err)
		tasksdk.ErrServerError.WriteError(w)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tasksdk.RefreshResponse{AccessToken: pair.AccessToken})
}

func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req tasksdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

package http

import (
	"net/http"

	"github.com/taskrail/taskrail/pkg/tokenx"
)

// refreshCookieName is the cookie that carries the refresh token. The browser
// never exposes it to script; it travels only on requests back to this
// server.
const refreshCookieName = "refreshToken"

// setRefreshCookie writes a rotated refresh token. Path is "/" so the cookie
// rides along on /auth/refresh and /auth/logout alike, and SameSite=Lax keeps
// it off cross-site subrequests while still surviving top-level navigation.
func setRefreshCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenx.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearRefreshCookie expires the refresh cookie. Attributes must match the
// setter or the browser treats it as a different cookie and keeps the
// original.
func clearRefreshCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

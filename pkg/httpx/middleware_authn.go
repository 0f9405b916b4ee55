package httpx

import (
	"net/http"
	"strings"

	"github.com/taskrail/taskrail/pkg/slogx"
	"github.com/taskrail/taskrail/pkg/tokenx"
)

// Messages surfaced to callers on authentication failure. Stable strings the
// client SDK matches on.
const (
	MsgMissingAuthorization = "Missing or invalid authorization header"
	MsgInvalidAccessToken   = "Invalid or expired access token"
)

// AuthnMiddleware enforces bearer authentication using the access-token codec.
// On success the verified user ID is attached to the request context; every
// failure is a synchronous 401 with no retry path at this layer.
func AuthnMiddleware(codec *tokenx.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, MsgMissingAuthorization)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := codec.Verify(raw)
			if err != nil {
				log.Warn("access token verification failed", "err", err)
				writeBearerError(w, MsgInvalidAccessToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(ctx, claims.UserID)))
		})
	}
}

// RFC 6750-flavoured 401 with the JSON body our clients expect.
func writeBearerError(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": msg})
}

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

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP creates a new account. Registration does not log the user in;
// the client follows up with a login call.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.AuthService.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort):
			tasksdk.ErrPasswordTooShort.WriteError(w)
		case errors.Is(err, service.ErrEmailTaken):
			tasksdk.ErrEmailTaken.WriteError(w)
		default:
			log.Error("register failed", "err", err)
			tasksdk.ErrServerError.WriteError(w)
		}
		return
	}

	log.Info("user registered", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusCreated, tasksdk.RegisterResponse{
		User: tasksdk.UserInfo{ID: user.ID, Email: user.Email},
	})
}

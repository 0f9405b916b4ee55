package tasksdk

import "time"

// UserInfo is the public shape of an account: the identity claim's user ID
// plus the registered email.
type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// CredentialsRequest is the body of both register and login calls.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned from POST /auth/register.
type RegisterResponse struct {
	User UserInfo `json:"user"`
}

// LoginResponse is returned from POST /auth/login. The refresh token is NOT
// part of the body; it travels only in the Set-Cookie header.
type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	User        UserInfo `json:"user"`
}

// RefreshRequest is the body fallback for cookie-less clients calling
// POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// RefreshResponse is returned from POST /auth/refresh. The rotated refresh
// token again travels only in the cookie.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// MessageResponse is the generic `{message}` body used for logout and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// Task is the wire representation of a task.
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Items    []Task `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int64  `json:"total"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest is the body of PATCH /tasks/{id}. Omitted fields keep
// their current value.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ListTasksParams are the query parameters of GET /tasks. Zero values are
// omitted and the server applies its defaults.
type ListTasksParams struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// HealthChecks reports the state of each dependency probed by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is the body of the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

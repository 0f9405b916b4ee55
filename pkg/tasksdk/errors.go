package tasksdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is the single error shape that crosses the wire, in both
// directions: handlers render it with WriteError, the client reconstructs it
// from any non-2xx body.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// WriteError renders the error as its JSON body with the carried status code.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// NewAPIError builds an APIError with an explicit status code.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

// Canonical API errors. Handlers return these verbatim so the client can
// compare messages, and tests can assert exact bodies.
var (
	ErrMissingEmailPassword = NewAPIError(http.StatusBadRequest, "Email and password are required")
	ErrPasswordTooShort     = NewAPIError(http.StatusBadRequest, "Password must be at least 6 characters long")
	ErrEmailTaken           = NewAPIError(http.StatusBadRequest, "Email is already registered")
	ErrInvalidCredentials   = NewAPIError(http.StatusUnauthorized, "Invalid credentials")
	ErrMissingRefreshToken  = NewAPIError(http.StatusUnauthorized, "Missing refresh token")
	ErrInvalidRefreshToken  = NewAPIError(http.StatusUnauthorized, "Invalid or expired refresh token")
	ErrInvalidJSONBody      = NewAPIError(http.StatusBadRequest, "Invalid JSON body")
	ErrTitleRequired        = NewAPIError(http.StatusBadRequest, "Title is required")
	ErrInvalidTaskStatus    = NewAPIError(http.StatusBadRequest, "Invalid task status")
	ErrTaskNotFound         = NewAPIError(http.StatusNotFound, "Task not found")
	ErrServerError          = NewAPIError(http.StatusInternalServerError, "Internal server error")
)

// parseErrorResponse turns a non-2xx response body into an *APIError. Bodies
// that are not the expected `{message}` shape fall back to the status text.
func parseErrorResponse(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

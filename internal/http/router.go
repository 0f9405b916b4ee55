package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskrail/taskrail/internal/service"
	"github.com/taskrail/taskrail/internal/store"
	"github.com/taskrail/taskrail/pkg/httpx"
	"github.com/taskrail/taskrail/pkg/slogx"
	"github.com/taskrail/taskrail/pkg/tokenx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	accessCodec   *tokenx.Codec
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store       store.Store
	AuthService *service.AuthService
	TaskService *service.TaskService
}

func NewRouter(
	accessCodec *tokenx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	clientOrigin string,
	secureCookies bool,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		accessCodec:   accessCodec,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		secureCookies: secureCookies,
		store:         st,
	}

	// Set default middleware chain. CORS sits outermost so preflights never
	// reach the mux, and every request gets a contextual logger.
	r.middlewares = []httpx.Middleware{
		httpx.CORS(clientOrigin),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTasks()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	loginHandler := &LoginHandler{AuthService: r.AuthService, SecureCookies: r.secureCookies}
	refreshHandler := &RefreshHandler{AuthService: r.AuthService, SecureCookies: r.secureCookies}
	logoutHandler := &LogoutHandler{SecureCookies: r.secureCookies}

	// POST /auth/register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/refresh - moderate rate limit; silent refresh fires at most
	// once per access token lifetime per well-behaved client
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/logout - deliberately unauthenticated: clearing the cookie
	// must work even when both tokens have already expired
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	secured := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.accessCodec),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /tasks", secured(h.HandleList))
	r.Mux.Handle("POST /tasks", secured(h.HandleCreate))
	r.Mux.Handle("GET /tasks/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /tasks/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /tasks/{id}", secured(h.HandleDelete))
	r.Mux.Handle("POST /tasks/{id}/toggle", secured(h.HandleToggle))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.accessCodec),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

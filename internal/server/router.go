package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// BasicRouter is a small HTTP router implementing the [Router] interface on top of [http.ServeMux].
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// NewProfileRouter wires the profile and health handlers behind request logging and panic recovery.
func NewProfileRouter(items ItemLister, opts ProfileOpts, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := NewBasicRouter()
	r.Use(LogRequests(logger), Recover(logger))
	r.Handler(NewProfileHandler(items, opts, logger))
	r.Handle(http.MethodGet, "/health", NewHealthHandler(items))
	return r
}

// Use adds [Middleware] to the middleware stack. The first one added is the outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for a single method and path, wrapped with all registered middleware.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	methodHandler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !strings.EqualFold(req.Method, method) {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		handler.ServeHTTP(w, req)
	})

	r.mux.Handle(path, r.Apply(methodHandler))
}

// Handler registers a custom Handler implementation for every path in [Handler.Routes].
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order so the first registered runs first.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/assets"
	"github.com/youyuhsuan/designare/identity"
	"github.com/youyuhsuan/designare/internal/config"
	"github.com/youyuhsuan/designare/projects"
	"github.com/youyuhsuan/designare/sessions"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Sessions *sessions.Manager
	// Access checks the access token of the session cookie on protected routes.
	Access   sessions.TokenVerifier
	Identity identity.Provider
	// IDTokens is nil when third-party sign-in is not configured.
	IDTokens identity.IDTokenVerifier
	Projects projects.Repo
	Assets   assets.Repo
	// Registry backs /metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	// Ping reports backend health for /healthz. Optional.
	Ping func(ctx context.Context) error
}

type Server struct {
	env     string // Environment ("DEV" or "PROD")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	deps    Deps
	metrics *httpMetrics
	nowFunc func() time.Time
}

type Option func(*Server)

func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func New(cfg config.Config, deps Deps, options ...Option) (*Server, error) {
	switch {
	case deps.Sessions == nil:
		return nil, fmt.Errorf("[Server New] session manager is required")
	case deps.Access == nil:
		return nil, fmt.Errorf("[Server New] access token verifier is required")
	case deps.Identity == nil:
		return nil, fmt.Errorf("[Server New] identity provider is required")
	case deps.Projects == nil || deps.Assets == nil:
		return nil, fmt.Errorf("[Server New] project and asset repos are required")
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		deps:    deps,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.metrics = newHTTPMetrics(deps.Registry)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDevelopment {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

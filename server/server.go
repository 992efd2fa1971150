package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/signetdash/signet/apiclient"
	"github.com/signetdash/signet/auth"
	"github.com/signetdash/signet/dashboard"
	"github.com/signetdash/signet/documents"
	"github.com/signetdash/signet/internal/config"
	"github.com/signetdash/signet/session"
)

// Server is the dashboard's own HTTP surface: the session endpoints and the
// JSON proxy routes the pages consume. All backend traffic flows through the
// authorized API client; no handler attaches bearer headers manually.
type Server struct {
	mux    *http.ServeMux
	routes []string
	config *config.Config
	log    zerolog.Logger

	auth      *auth.Service
	assembler *session.Assembler
	sessions  *session.Manager
	watchdog  *session.Watchdog
	documents *documents.Service
	dashboard *dashboard.Service
}

// New wires the session core and its consumers into a Server.
func New(cfg *config.Config, log zerolog.Logger) *Server {
	signer := session.NewHMACSigner(cfg.SessionSecret)
	assembler := session.NewAssembler(signer, cfg.SessionMaxAge)
	manager := session.NewManager(assembler)
	watchdog := session.NewWatchdog(manager, func() {
		log.Info().Str("location", loginRoute).Msg("redirecting to login")
	}, log)

	client := apiclient.New(cfg.APIBaseURL, manager, apiclient.WithLogger(log))

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		log:       log,
		auth:      auth.NewService(cfg.APIBaseURL, log),
		assembler: assembler,
		sessions:  manager,
		watchdog:  watchdog,
		documents: documents.NewService(client),
		dashboard: dashboard.NewService(client),
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// RegisterRouteFunc registers a handler function and records the pattern for
// the startup route log.
func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Sessions exposes the process-wide session manager so excluded UI
// collaborators can read the current auth header or register invalidation
// callbacks.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		s.log.Info().Str("route", route).Msg("registered")
	}
}

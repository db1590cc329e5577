package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wifi-control/whal/internal/audit"
	"github.com/wifi-control/whal/internal/auth"
	"github.com/wifi-control/whal/internal/wifi"
)

// Options configures the router.
type Options struct {
	AuthSecret     string
	AllowedOrigins []string
	MaxScanResults int
}

// Server carries handler dependencies.
type Server struct {
	hal  *wifi.HAL
	log  zerolog.Logger
	opts Options
}

// NewRouter builds the API router. Read routes require the view scope,
// state-changing routes require control; auth is disabled when the secret
// is empty.
func NewRouter(hal *wifi.HAL, log zerolog.Logger, opts Options) http.Handler {
	if opts.MaxScanResults <= 0 {
		opts.MaxScanResults = 20
	}
	s := &Server{hal: hal, log: log, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}))
	}

	view := auth.Middleware(opts.AuthSecret, auth.ScopeView)
	control := auth.Middleware(opts.AuthSecret, auth.ScopeControl)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(view)
			r.Get("/mode", s.handleGetMode)
			r.Get("/scan", s.handleScan)
			r.Get("/profiles/{index}", s.handleProfileGet)
			r.Get("/power", s.handleGetPower)
			r.Get("/ip", s.handleIP)
			r.Get("/mac", s.handleMAC)
			r.Get("/status", s.handleStatus)
			r.Get("/resolve", s.handleResolve)
		})

		r.Group(func(r chi.Router) {
			r.Use(control)
			r.Post("/radio/on", s.handleOn)
			r.Post("/radio/off", s.handleOff)
			r.Post("/radio/reset", s.handleReset)
			r.Post("/connect", s.handleConnect)
			r.Post("/disconnect", s.handleDisconnect)
			r.Post("/mode", s.handleSetMode)
			r.Post("/profiles", s.handleProfileAdd)
			r.Delete("/profiles/{index}", s.handleProfileDelete)
			r.Post("/ap", s.handleConfigureAP)
			r.Post("/power", s.handleSetPower)
		})
	})

	return r
}

// requestIDMiddleware assigns each request an identifier and threads it
// through the context so HAL audit entries correlate with the request.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := audit.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(r *http.Request) string {
	return audit.RequestID(r.Context())
}

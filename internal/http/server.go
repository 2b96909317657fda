package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Rishabh-devloper/wealthwise/internal/log"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware/ratelimit"
)

type Server struct {
	httpServer *http.Server
	limiter    *ratelimit.Limiter
}

type ServerConfig struct {
	Port               string
	RateLimitPerMinute int
}

// NewServer wires the middleware chain and mounts every resource router.
func NewServer(cfg ServerConfig, deps *Deps, authMW *middleware.Middleware) *Server {
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimitPerMinute,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(log.Middleware(deps.Logger.WithComponent(log.ComponentHTTP)))
	r.Use(log.RequestIDMiddleware(func(req *http.Request) string {
		return chimiddleware.GetReqID(req.Context())
	}))
	r.Use(requestLogger)
	r.Use(mutatingOnly(limiter.Middleware(clientIP)))
	r.Use(authMW.ResolveIdentity)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/accounts", NewAccountHandlers(deps).AccountRoutes())
		r.Mount("/transactions", NewTransactionHandlers(deps).TransactionRoutes())
		r.Mount("/budgets", NewBudgetHandlers(deps).BudgetRoutes())
		r.Mount("/goals", NewGoalHandlers(deps).GoalRoutes())
		r.Mount("/reports", NewReportHandlers(deps).ReportRoutes())
		r.Mount("/ai", NewAIHandlers(deps).AIRoutes())
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		limiter: limiter,
	}
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// mutatingOnly applies mw to requests that change state; reads pass
// through unlimited.
func mutatingOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				wrapped.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger := log.FromContext(r.Context())
		fields := log.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path).
			WithHTTPResponse(rec.status, time.Since(start).Milliseconds(), rec.status < 400).
			WithClientIP(clientIP(r))
		logger.InfoContext(r.Context(), "HTTP request completed", fields.ToSlice()...)
	})
}

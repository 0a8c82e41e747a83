// Package fixture is an in-process stand-in for the NayiDisha backend. It
// implements the REST contract the client consumes over in-memory data and
// signs HS256 tokens carrying a roles claim.
package fixture

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/common"
	"github.com/nayidisha/nayidisha-client/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

const createdAtLayout = "2006-01-02T15:04:05"

type Server struct {
	store    *Store
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
	log      logging.Logger
	router   chi.Router
}

type Option func(*Server)

func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// WithHashCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Server) { s.hashCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithLogger(log logging.Logger) Option {
	return func(s *Server) { s.log = log }
}

func New(opts ...Option) *Server {
	s := &Server{
		store:    NewStore(),
		secret:   []byte("fixture-secret"),
		ttl:      24 * time.Hour,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, s.logRequests)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Head("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Post("/auth/signin", s.signIn)
	r.Post("/auth/signup", s.signUp)
	r.Get("/auth/verify", s.verify)

	r.Group(func(protected chi.Router) {
		protected.Use(s.requireToken)

		protected.Group(func(admin chi.Router) {
			admin.Use(requireRole(models.RoleAdmin))
			admin.Get("/api/admin/issues", s.listIssues)
			admin.Get("/api/admin/view-issue/{id}", s.viewIssue)
			admin.Patch("/api/admin/issues/{id}/{transition}", s.transitionIssue)
			admin.Delete("/api/admin/issues/{id}", s.deleteIssue)
			admin.Get("/api/admin/get-all-users", s.listUsers)
			admin.Get("/api/admin/profile", s.profile)
		})

		protected.Group(func(user chi.Router) {
			user.Use(requireRole(models.RoleUser))
			user.Get("/api/users/profile", s.profile)
			user.Patch("/api/users/profile/update", s.updateProfile)
			user.Post("/api/users/reportIssue/", s.reportIssue)
			user.Get("/api/users/issues", s.myIssues)
			user.Get("/api/users/reportIssue/{id}", s.viewReport)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug(r.Context(), "fixture request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get(common.RequestIDHeader),
			"duration", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeader, "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set(common.ContentTypeHeader, "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

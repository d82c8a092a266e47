package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appAccreditation "github.com/accreditation-hub/accreditation-hub/internal/application/accreditation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	accreditationSvc *appAccreditation.Service
}

// NewServer creates the API server.
func NewServer(accreditationSvc *appAccreditation.Service) *Server {
	return &Server{accreditationSvc: accreditationSvc}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/user", func(r chi.Router) {
		r.Post("/accreditation", s.createAccreditation)
		r.Put("/accreditation/{accreditationId}", s.updateAccreditation)
		r.Get("/accreditation/{accreditationId}/document", s.getDocument)
		r.Get("/{userId}/accreditation", s.getUserAccreditations)
		r.Get("/history/{accreditationId}", s.getHistory)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

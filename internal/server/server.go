// Package server is the reference implementation of the remote fitness
// service the client talks to. It stores per-user documents, computes goal
// progress at read time and publishes an event for every successful write.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitdeck/fitdeck/internal/auth"
	"github.com/fitdeck/fitdeck/internal/gateway"
	"github.com/fitdeck/fitdeck/internal/server/events"
	"github.com/fitdeck/fitdeck/internal/server/store"
)

// maxBodyBytes bounds request bodies; meal uploads carry the photo inline.
const maxBodyBytes = 16 << 20

// Options configure a Server.
type Options struct {
	Store        store.Store
	Events       events.Publisher // nil disables publishing
	Auth         auth.Config
	PhotoBaseURL string // prefix for photo URLs; empty yields server-relative URLs
	Now          func() time.Time
}

// Server serves the fitness API.
type Server struct {
	store     store.Store
	events    events.Publisher
	auth      auth.Config
	photoBase string
	now       func() time.Time
}

// New builds a Server.
func New(opts Options) *Server {
	s := &Server{
		store:     opts.Store,
		events:    opts.Events,
		auth:      opts.Auth,
		photoBase: opts.PhotoBaseURL,
		now:       opts.Now,
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the routed, authenticated and logged HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(gateway.PathHealth, healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc(gateway.PathRole, s.getRole).Methods(http.MethodGet)
	r.HandleFunc(gateway.PathProfile, s.getProfile).Methods(http.MethodGet)
	r.HandleFunc(gateway.PathProfile, s.saveProfile).Methods(http.MethodPut)

	r.HandleFunc(gateway.PathWorkouts, s.listWorkouts).Methods(http.MethodGet)
	r.HandleFunc(gateway.PathWorkouts+"/{id}", s.saveWorkout).Methods(http.MethodPut)
	r.HandleFunc(gateway.PathWorkouts+"/{id}", s.deleteDocument(store.Workouts, "deleteWorkout")).Methods(http.MethodDelete)

	r.HandleFunc(gateway.PathGoals, s.listGoals).Methods(http.MethodGet)
	r.HandleFunc(gateway.PathGoals+"/{id}", s.saveGoal).Methods(http.MethodPut)
	r.HandleFunc(gateway.PathGoals+"/{id}", s.deleteDocument(store.Goals, "deleteGoal")).Methods(http.MethodDelete)

	r.HandleFunc(gateway.PathMeals, s.listMeals).Methods(http.MethodGet)
	r.HandleFunc(gateway.PathMeals+"/{id}", s.saveMeal).Methods(http.MethodPut)
	r.HandleFunc(gateway.PathMeals+"/{id}", s.deleteMeal).Methods(http.MethodDelete)

	r.HandleFunc(gateway.PathActivities, s.listActivities).Methods(http.MethodGet)
	r.HandleFunc(gateway.PathActivities+"/{id}/start", s.startActivity).Methods(http.MethodPost)
	r.HandleFunc(gateway.PathActivities+"/{id}/end", s.endActivity).Methods(http.MethodPost)

	r.HandleFunc(gateway.PathExport, s.exportData).Methods(http.MethodGet)
	r.HandleFunc(gateway.PathData, s.deleteAllData).Methods(http.MethodDelete)
	r.HandleFunc(gateway.PathPhotos+"/{id}", s.getPhoto).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	})

	authMiddleware := auth.NewMiddleware(s.auth, auth.PathSkipper(gateway.PathHealth, "/metrics"))
	return logRequests(authMiddleware.Wrap(r))
}

// HTTPConfig contains tunables for the HTTP server.
type HTTPConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewHTTPServer creates an *http.Server for handler.
func NewHTTPServer(cfg HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

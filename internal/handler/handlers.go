package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"teamtasks/internal/domain"
	"teamtasks/internal/models"
	"teamtasks/internal/service"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds the dependencies of the HTTP layer.
type Handler struct {
	creds *service.Credentials
	tasks *service.Tasks
	log   *slog.Logger
	db    Pinger
	now   func() time.Time
}

// NewHandler wires the services into a Handler. db may be nil when no
// database backs the store.
func NewHandler(creds *service.Credentials, tasks *service.Tasks, log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		creds: creds,
		tasks: tasks,
		log:   log,
		db:    db,
		now:   time.Now,
	}
}

// Router builds the route table wrapped in CORS, request logging and panic
// recovery.
func (h *Handler) Router(corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.methodNotAllowed)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/register", h.RegisterHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/auth", h.LoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/leaders", h.LeadersHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/users", h.CreateUserHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/users", h.UsersHandler).Methods(http.MethodGet)
	r.Handle("/api/users/subordinates", h.requireUser(h.SubordinatesHandler)).Methods(http.MethodGet)

	r.Handle("/api/tasks", h.requireUser(h.ListTasksHandler)).Methods(http.MethodGet)
	r.Handle("/api/tasks", h.requireUser(h.CreateTaskHandler)).Methods(http.MethodPost)
	r.Handle("/api/tasks/{id:[0-9]+}", h.requireUser(h.UpdateTaskHandler)).Methods(http.MethodPut)
	r.Handle("/api/tasks/{id:[0-9]+}", h.requireUser(h.DeleteTaskHandler)).Methods(http.MethodDelete)

	cors := handlers.CORS(
		handlers.AllowedOrigins(corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)
	return h.recoverer(h.requestLogger(cors(r)))
}

// HealthHandler pings the database when there is one.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.log.ErrorContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "route not found"})
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status err maps to. Internal errors are logged
// and replaced by a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "request failed",
			"request_id", requestID(r.Context()), "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err)
	}
	return nil
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"microblogPosts/internal/service"
)

// HealthCheck pings the backing store.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	PostService service.PostService
	Health      HealthCheck
	Validate    *validator.Validate
	Logger      *slog.Logger
}

func NewHandlers(services *service.Service, health HealthCheck, logger *slog.Logger) *Handlers {
	return &Handlers{
		PostService: services.Post,
		Health:      health,
		Validate:    NewValidator(),
		Logger:      logger,
	}
}

// NewValidator reports field errors under their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func (h *Handlers) Routes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/post", h.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/post", h.GetPosts).Methods(http.MethodGet)
	r.HandleFunc("/post/{id}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/post/{id}", h.UpdatePost).Methods(http.MethodPut)
	r.HandleFunc("/post/{id}", h.DeletePost).Methods(http.MethodDelete)
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health(r.Context()); err != nil {
			h.Logger.Error("health check failed", "error", err)
			writeSuccess(w, HealthResponse{Status: "unavailable", Error: err.Error()}, http.StatusServiceUnavailable)
			return
		}
	}

	writeSuccess(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

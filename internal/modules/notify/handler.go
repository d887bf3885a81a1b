package notify

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Resolver finds the emitter belonging to the visitor making the request.
type Resolver interface {
	Toasts(r *http.Request) (*Emitter, error)
}

// Handler exposes the visitor's toast stack.
type Handler struct{ resolver Resolver }

func NewHandler(resolver Resolver) *Handler { return &Handler{resolver: resolver} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Get("/", h.list)
		r.Delete("/{id}", h.dismiss)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	e, err := h.resolver.Toasts(r)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, e.Active())
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	e, err := h.resolver.Toasts(r)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !e.Dismiss(chi.URLParam(r, "id")) {
		respond(w, http.StatusNotFound, map[string]string{"error": "notification not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

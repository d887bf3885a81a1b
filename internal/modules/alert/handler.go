package alert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
)

// Resolver finds the alert book belonging to the visitor making the request.
type Resolver interface {
	Alerts(r *http.Request) (*Book, error)
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type CreateRequest struct {
	ProductID    string          `json:"product_id"`
	DesiredPrice decimal.Decimal `json:"desired_price"`
	Email        string          `json:"email,omitempty"`
}

type Handler struct {
	resolver Resolver
	products ProductLookup
}

func NewHandler(resolver Resolver, products ProductLookup) *Handler {
	return &Handler{resolver: resolver, products: products}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, book.List())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		respondError(w, err)
		return
	}
	a, err := book.Create(r.Context(), p, req.DesiredPrice, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, a)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}
	if err := book.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) (*Book, bool) {
	b, err := h.resolver.Alerts(r)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return b, true
}

func respondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

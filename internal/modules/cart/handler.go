package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
)

// Resolver finds the cart belonging to the visitor making the request.
type Resolver interface {
	Cart(r *http.Request) (*Store, error)
}

// ProductLookup is the slice of the catalog the cart needs.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// AddItemRequest is the payload of POST /api/v1/cart/items. An omitted
// quantity means one.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// SetQuantityRequest is the payload of PUT /api/v1/cart/items/{id}.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Handler exposes cart HTTP endpoints.
type Handler struct {
	resolver Resolver
	products ProductLookup
}

func NewHandler(resolver Resolver, products ProductLookup) *Handler {
	return &Handler{resolver: resolver, products: products}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.clear)
		r.Post("/items", h.addItem)
		r.Put("/items/{id}", h.setQuantity)
		r.Delete("/items/{id}", h.removeItem)
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, store.Summary())
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, store.Clear(r.Context()))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	p, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		respondError(w, err)
		return
	}
	sum, err := store.Add(r.Context(), p, qty)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, sum)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sum, err := store.SetQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, sum)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, store.Remove(r.Context(), chi.URLParam(r, "id")))
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	store, err := h.resolver.Cart(r)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return store, true
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		code = http.StatusBadRequest
	case errors.Is(err, ErrLineNotFound), errors.Is(err, catalog.ErrNotFound):
		code = http.StatusNotFound
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

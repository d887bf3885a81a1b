package quickview

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront/internal/modules/cart"
)

// Resolver finds the modal belonging to the visitor making the request.
type Resolver interface {
	QuickView(r *http.Request) (*Controller, error)
}

type OpenRequest struct {
	ProductID string `json:"product_id"`
}

// QuantityRequest either sets the stepper outright or moves it by Delta.
type QuantityRequest struct {
	Quantity *int `json:"quantity,omitempty"`
	Delta    int  `json:"delta,omitempty"`
}

type AddResponse struct {
	Cart cart.Summary `json:"cart"`
	View View         `json:"view"`
}

type Handler struct{ resolver Resolver }

func NewHandler(resolver Resolver) *Handler { return &Handler{resolver: resolver} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/quickview", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/open", h.open)
		r.Put("/quantity", h.quantity)
		r.Post("/add", h.add)
		r.Post("/close", h.close)
	})
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, c.View())
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.ProductID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}
	v, err := c.Open(r.Context(), req.ProductID)
	if errors.Is(err, ErrStale) {
		respond(w, http.StatusConflict, v)
		return
	}
	if v.NotFound {
		respond(w, http.StatusNotFound, v)
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) quantity(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var (
		v   View
		err error
	)
	if req.Quantity != nil {
		v, err = c.SetQuantity(*req.Quantity)
	} else {
		v, err = c.Step(req.Delta)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	sum, err := c.AddToCart(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, AddResponse{Cart: sum, View: c.View()})
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	c.Close()
	respond(w, http.StatusOK, c.View())
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*Controller, bool) {
	c, err := h.resolver.QuickView(r)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return c, true
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotShown):
		code = http.StatusConflict
	case errors.Is(err, ErrOutOfStock), errors.Is(err, cart.ErrInvalidQuantity):
		code = http.StatusUnprocessableEntity
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

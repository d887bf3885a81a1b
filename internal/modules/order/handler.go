package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront/internal/modules/cart"
	"github.com/georgemunganga/storefront/internal/modules/session"
)

// CartResolver finds the cart of the visitor checking out.
type CartResolver interface {
	Cart(r *http.Request) (*cart.Store, error)
}

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	carts   CartResolver
}

func NewHandler(service Service, carts CartResolver) *Handler {
	return &Handler{service: service, carts: carts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.checkout)                  // POST /api/v1/orders
		r.Get("/number/{number}", h.getOwnOrder) // GET  /api/v1/orders/number/{number}
	})
}

// RegisterAdminRoutes mounts the staff endpoints on an already guarded router.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders", h.listRecent)                     // GET   /api/v1/admin/orders?limit=50
	r.Get("/orders/{number}", h.getOrder)              // GET   /api/v1/admin/orders/{number}
	r.Patch("/orders/{number}/status", h.updateStatus) // PATCH /api/v1/admin/orders/{number}/status
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": session.ErrNoSession.Error()})
		return
	}
	c, err := h.carts.Cart(r)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.Checkout(r.Context(), sessionID, c.Summary())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

// getOwnOrder only shows visitors the orders they placed themselves.
func (h *Handler) getOwnOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, err)
		return
	}
	if sessionID, ok := session.IDFromContext(r.Context()); !ok || sessionID != o.SessionID {
		respondError(w, ErrNotFound)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) listRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "number"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var terr *TransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrEmptyCart):
		code = http.StatusBadRequest
	case errors.As(err, &terr):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoPhone):
		code = http.StatusServiceUnavailable
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package filter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
)

// BrowseResponse is the body of GET /api/v1/catalog/browse.
type BrowseResponse struct {
	Products []*catalog.Product `json:"products"`
	Count    int                `json:"count"`
	Facets   Facets             `json:"facets"`
	// Query is the canonical form of the applied filters, ready to be put
	// back into the address bar.
	Query string `json:"query"`
}

// Handler serves filtered catalog listings.
type Handler struct {
	catalog catalog.Service
	engine  *Engine
}

func NewHandler(catalog catalog.Service, engine *Engine) *Handler {
	return &Handler{catalog: catalog, engine: engine}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/catalog/browse", h.browse)
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	spec, err := FromValues(r.URL.Query())
	if err != nil {
		code := http.StatusInternalServerError
		var verr *ValidationError
		if errors.As(err, &verr) {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}

	all, err := h.catalog.ListProducts(r.Context(), "")
	if err != nil {
		respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	visible := h.engine.Apply(all, spec)
	respond(w, http.StatusOK, BrowseResponse{
		Products: visible,
		Count:    len(visible),
		Facets:   ComputeFacets(all),
		Query:    SerializeToQuery(spec),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package filter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
)

func newBrowseRouter() *chi.Mux {
	svc := catalog.NewService(catalog.NewMemoryRepository(catalog.SampleProducts("KES")...), "KES", zap.NewNop())
	r := chi.NewRouter()
	NewHandler(svc, NewEngine("en")).RegisterRoutes(r)
	return r
}

func TestHandler_Browse(t *testing.T) {
	rec := httptest.NewRecorder()
	newBrowseRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/catalog/browse?categories=Grains,Baking&in_stock=true&sort=price-low", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body BrowseResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"salt-20kg", "rice-25kg", "sugar-50kg"}, ids(body.Products))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "categories=Baking%2CGrains&in_stock=true&sort=price-low", body.Query)
	assert.Len(t, body.Facets.Categories, 6)
}

func TestHandler_BrowseRejectsBadQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	newBrowseRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/browse?sort=cheapest", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

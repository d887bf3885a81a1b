package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/cart"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/session"
	"github.com/georgemunganga/storefront/internal/platform/blobstore"
)

type fixedCart struct{ c *cart.Store }

func (f fixedCart) Cart(*http.Request) (*cart.Store, error) { return f.c, nil }

func request(method, path, sessionID, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sessionID != "" {
		req = req.WithContext(session.WithID(req.Context(), sessionID))
	}
	return req
}

func TestHandler_CheckoutAndLookup(t *testing.T) {
	ctx := context.Background()
	c := cart.NewStore("cart:visitor-a", blobstore.NewMemory(), zap.NewNop())
	rice, err := catalog.NewService(catalog.NewMemoryRepository(catalog.SampleProducts("KES")...), "KES", zap.NewNop()).
		GetProduct(ctx, "rice-25kg")
	require.NoError(t, err)

	h := NewHandler(newTestService(NewMemoryRepository(), "254700000000"), fixedCart{c})
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Route("/api/v1/admin", h.RegisterAdminRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, request(http.MethodPost, "/api/v1/orders", "visitor-a", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	_, err = c.Add(ctx, rice, 2)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, request(http.MethodPost, "/api/v1/orders", "visitor-a", ""))
	require.Equal(t, http.StatusCreated, rec.Code)
	var o Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&o))
	assert.Equal(t, "https://wa.me/254700000000?text=2x%20Pishori%20Rice%2025kg%20-%20KES%202500.00%0ATotal%3A%20KES%202500.00", o.DeepLink)
	assert.Equal(t, 2, c.Count(), "checkout leaves the cart alone")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, request(http.MethodGet, "/api/v1/orders/number/"+o.OrderNumber, "visitor-a", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, request(http.MethodGet, "/api/v1/orders/number/"+o.OrderNumber, "visitor-b", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code, "other visitors cannot read the order")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, request(http.MethodGet, "/api/v1/admin/orders/"+o.OrderNumber, "", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, request(http.MethodPatch, "/api/v1/admin/orders/"+o.OrderNumber+"/status", "", `{"status":"FULFILLED"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, request(http.MethodGet, "/api/v1/admin/orders?limit=10", "", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 1)
}

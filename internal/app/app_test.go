package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/session"
	"github.com/georgemunganga/storefront/internal/platform/config"
)

func newTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	ctx := context.Background()
	cfg := config.Default()
	cfg.DatabaseURL = "file::memory:"
	cfg.WhatsAppPhone = "+254 700 000 000"
	cfg.JWTSecret = "integration-secret"

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	_, err = catalog.Seed(ctx, catalog.NewSQLRepository(a.DB), catalog.SampleProducts(cfg.Currency))
	require.NoError(t, err)

	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)
	return a, srv
}

type client struct {
	t       *testing.T
	base    string
	session string
	token   string
}

func (c *client) do(method, path, body string) (int, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if c.session != "" {
		req.Header.Set(session.HeaderName, c.session)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, raw
}

func TestStorefrontJourney(t *testing.T) {
	_, srv := newTestApp(t)
	c := &client{t: t, base: srv.URL, session: "visitor-journey-1"}

	code, raw := c.do(http.MethodGet, "/api/v1/catalog/browse?categories=Grains&in_stock=true", "")
	require.Equal(t, http.StatusOK, code, string(raw))
	var browse struct {
		Products []catalog.Product `json:"products"`
		Query    string            `json:"query"`
	}
	require.NoError(t, json.Unmarshal(raw, &browse))
	require.Len(t, browse.Products, 1)
	assert.Equal(t, "rice-25kg", browse.Products[0].ID)
	assert.Equal(t, "categories=Grains&in_stock=true", browse.Query)

	code, raw = c.do(http.MethodPost, "/api/v1/quickview/open", `{"product_id":"rice-25kg"}`)
	require.Equal(t, http.StatusOK, code, string(raw))
	code, _ = c.do(http.MethodPut, "/api/v1/quickview/quantity", `{"quantity":2}`)
	require.Equal(t, http.StatusOK, code)
	code, raw = c.do(http.MethodPost, "/api/v1/quickview/add", "")
	require.Equal(t, http.StatusOK, code, string(raw))

	code, raw = c.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":"salt-20kg","quantity":3}`)
	require.Equal(t, http.StatusOK, code, string(raw))
	var sum struct {
		Count int    `json:"count"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &sum))
	assert.Equal(t, 5, sum.Count)
	assert.Equal(t, "4360", sum.Total)

	code, raw = c.do(http.MethodGet, "/api/v1/notifications", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "Added 2 x")

	code, raw = c.do(http.MethodPost, "/api/v1/alerts", `{"product_id":"sugar-50kg","desired_price":"3000"}`)
	require.Equal(t, http.StatusCreated, code, string(raw))

	code, raw = c.do(http.MethodPost, "/api/v1/orders", "")
	require.Equal(t, http.StatusCreated, code, string(raw))
	var o struct {
		OrderNumber string `json:"order_number"`
		DeepLink    string `json:"deep_link"`
	}
	require.NoError(t, json.Unmarshal(raw, &o))
	assert.True(t, strings.HasPrefix(o.DeepLink, "https://wa.me/254700000000?text="))
	assert.Contains(t, o.DeepLink, "%0ATotal%3A%20KES%204360.00")

	other := &client{t: t, base: srv.URL, session: "visitor-journey-2"}
	code, raw = other.do(http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), `"count":0`)
	code, _ = other.do(http.MethodGet, "/api/v1/orders/number/"+o.OrderNumber, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCartPersistsAcrossRegistries(t *testing.T) {
	a, srv := newTestApp(t)
	c := &client{t: t, base: srv.URL, session: "visitor-persist-1"}

	code, _ := c.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":"tea-5kg","quantity":4}`)
	require.Equal(t, http.StatusOK, code)

	// A registry built over the same blob store, as after a restart.
	reg := session.NewRegistry(a.Blobs, a.Catalog, session.Options{ToastTTL: time.Second, CloseDelay: time.Second}, zap.NewNop())
	defer reg.Close()
	s, err := reg.Get(context.Background(), "visitor-persist-1")
	require.NoError(t, err)
	assert.Equal(t, 4, s.Cart.Count())
}

func TestAdminSurface(t *testing.T) {
	a, srv := newTestApp(t)
	_, err := a.Users.RegisterUser(context.Background(), "owner@shop.example", "open sesame", "", "")
	require.NoError(t, err)

	c := &client{t: t, base: srv.URL}
	code, _ := c.do(http.MethodPost, "/api/v1/admin/products", `{"name":"Maize 90kg","category":"Grains","price":"5400","stock":3}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, raw := c.do(http.MethodPost, "/api/v1/auth/login", `{"email":"owner@shop.example","password":"open sesame"}`)
	require.Equal(t, http.StatusOK, code, string(raw))
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &tok))
	c.token = tok.Token

	code, raw = c.do(http.MethodPost, "/api/v1/admin/products", `{"name":"Maize 90kg","category":"Grains","price":"5400","stock":3}`)
	require.Equal(t, http.StatusCreated, code, string(raw))

	code, raw = c.do(http.MethodGet, "/api/v1/catalog/browse?q=maize", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "Maize 90kg")

	code, _ = c.do(http.MethodGet, "/api/v1/admin/orders", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
}

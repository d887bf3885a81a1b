package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(NewService(NewMemoryRepository())).RegisterAdminRoutes(r)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"email":"staff@shop.example","password":"long-enough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var u map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&u))
	assert.NotContains(t, u, "password_hash")
	assert.NotContains(t, u, "PasswordHash")

	assert.Equal(t, http.StatusConflict, post(`{"email":"staff@shop.example","password":"long-enough"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"email":"staff","password":"long-enough"}`).Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+u["id"].(string), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 1)
}

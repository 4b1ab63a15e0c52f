// internal/router/router_test.go
package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanz/sabores-backend/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{Environment: "test"}
	cfg.Auth.AdminToken = "authenticated_admin_token"
	cfg.Cache.ProductTTLSeconds = 120
	// No AWS credentials: storage runs on the local-disk fallback.
	return cfg
}

func TestInitializeServesHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r, err := Initialize(nil, testConfig())
	require.NoError(t, err)
	require.NotNil(t, r)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OK")
}

func TestInitializeProtectsAdminRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r, err := Initialize(nil, testConfig())
	require.NoError(t, err)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPost, "/api/categories"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/stock/adjustments"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require the admin token", route.method, route.path)
	}
}

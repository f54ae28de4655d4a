package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	called := false
	group := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) {
			called = true
			c.Next()
		}).
		GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.True(t, called)
	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())
}

func TestNewPricingRoutes(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(NewPricingRoutes(handler.NewPricingHandler(nil, pricing.DefaultMinGap))).Setup()

	routes := make(map[string]bool)
	for _, route := range engine.Routes() {
		routes[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/pricing/ladder",
		"GET /api/v1/pricing/ladder/validation",
		"PUT /api/v1/pricing/ladder/bands/:id/start",
		"PUT /api/v1/pricing/ladder/bands/:id/end",
		"PUT /api/v1/pricing/ladder/bands/:id/formula",
		"PUT /api/v1/pricing/ladder/bands/:id/compared-price",
		"DELETE /api/v1/pricing/ladder/bands/:id",
		"PUT /api/v1/pricing/ladder/compared-price",
		"POST /api/v1/pricing/ladder/save",
		"POST /api/v1/pricing/ladder/discard",
		"POST /api/v1/pricing/ladder/reset",
		"POST /api/v1/pricing/quote",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

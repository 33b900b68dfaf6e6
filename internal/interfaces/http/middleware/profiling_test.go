package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

// labelsOf reads the profiling labels visible to a handler
func labelsOf(c *gin.Context) map[string]string {
	labels := map[string]string{}
	pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
		labels[k] = v
		return true
	})
	return labels
}

func TestProfilingMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))

	var got map[string]string
	r.GET("/api/v1/posts", func(c *gin.Context) {
		got = labelsOf(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, got)
}

func TestProfilingMiddleware_LabelsRoute(t *testing.T) {
	r := gin.New()
	r.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	var got map[string]string
	r.GET("/api/v1/admin/ledger/:id", func(c *gin.Context) {
		got = labelsOf(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/ledger/abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/admin/ledger/:id", got[telemetry.ProfilingLabelRoute])
	assert.Equal(t, http.MethodGet, got[telemetry.ProfilingLabelMethod])
	assert.Equal(t, "ledger", got[telemetry.ProfilingLabelController])
	assert.NotContains(t, got, telemetry.ProfilingLabelRole)
}

func TestProfilingMiddleware_SkipsProbes(t *testing.T) {
	r := gin.New()
	r.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	var got map[string]string
	r.GET("/ready", func(c *gin.Context) {
		got = labelsOf(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Empty(t, got)
}

func TestProfilingAttributeInjector_AddsRole(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, "editor")
		c.Next()
	}, ProfilingAttributeInjector())

	var got map[string]string
	r.POST("/api/v1/admin/posts", func(c *gin.Context) {
		got = labelsOf(c)
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/posts", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "editor", got[telemetry.ProfilingLabelRole])
	assert.Equal(t, "posts", got[telemetry.ProfilingLabelController])
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"":                           "",
		"/api/v1/members":            "members",
		"/api/v1/admin/members/:id":  "members",
		"/api/v1/admin/uploads/*key": "uploads",
		"/api/v2/posts/:slug":        "posts",
		"/api/v1/auth/me":            "auth",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("events"))
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are exact paths that get no labels (health checks).
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that get no labels.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/ready"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// ProfilingWithConfig labels the CPU samples of a request with its route
// pattern, method and controller, so profiles can be filtered per endpoint.
// When it runs after the session guard the admin role is added too.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		route := c.FullPath()
		labels := telemetry.HTTPRequestLabels(controllerFromRoute(route), route, c.Request.Method, GetJWTRole(c))
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// ProfilingAttributeInjector relabels a request once the session guard has
// stored the caller's role. Mount it after the guard.
func ProfilingAttributeInjector() gin.HandlerFunc {
	cfg := DefaultProfilingConfig()
	cfg.SkipPaths = nil
	return ProfilingWithConfig(cfg)
}

// controllerFromRoute names the resource a route serves, skipping the API
// prefix and the admin section.
// "/api/v1/admin/ledger/:id" -> "ledger"
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "", part == "api", part == "admin":
			continue
		case isVersionSegment(part):
			continue
		case strings.HasPrefix(part, ":"), strings.HasPrefix(part, "*"):
			continue
		}
		return part
	}
	return ""
}

// isVersionSegment reports whether segment looks like "v1"
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

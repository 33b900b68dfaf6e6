package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const siteOrigin = "https://www.mediaassoc.example"

func corsRouter(cfg CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(CORSWithConfig(cfg))
	r.POST("/api/v1/members", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func siteCORS() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{siteOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func TestCORSWithConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         CORSConfig
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantCredent string
	}{
		{"site submits an application", siteCORS(), http.MethodPost, siteOrigin, http.StatusCreated, siteOrigin, "true"},
		{"site preflight", siteCORS(), http.MethodOptions, siteOrigin, http.StatusNoContent, siteOrigin, "true"},
		{"unknown origin gets no headers", siteCORS(), http.MethodPost, "https://evil.example", http.StatusCreated, "", ""},
		{"unknown origin preflight still 204", siteCORS(), http.MethodOptions, "https://evil.example", http.StatusNoContent, "", ""},
		{"same-origin request", siteCORS(), http.MethodPost, "", http.StatusCreated, "", ""},
		{"empty list admits nobody", CORSConfig{}, http.MethodPost, siteOrigin, http.StatusCreated, "", ""},
		{"wildcard never sends credentials", CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}, http.MethodPost, siteOrigin, http.StatusCreated, "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/members", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			corsRouter(tt.cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredent, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSWithConfig_PreflightHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/members", nil)
	req.Header.Set("Origin", siteOrigin)
	w := httptest.NewRecorder()
	corsRouter(siteCORS()).ServeHTTP(w, req)

	assert.Equal(t, "GET, POST, PATCH", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/api/v1/ledger/years", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("caller id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/years", nil)
		req.Header.Set(RequestIDHeader, "site-req-7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "site-req-7", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "site-req-7", w.Body.String())
	})

	t.Run("missing id is generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/years", nil))

		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("oversized id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/years", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", MaxRequestIDLength+1))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
	})
}

func TestSecureWithConfig(t *testing.T) {
	serve := func(cfg SecurityConfig, path string) http.Header {
		r := gin.New()
		r.Use(SecureWithConfig(cfg))
		r.GET("/*any", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Header()
	}

	t.Run("defaults lock down the api", func(t *testing.T) {
		h := serve(DefaultSecurityConfig(), "/api/v1/content/articles")
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
		assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'none'")
		assert.Contains(t, h.Get("Permissions-Policy"), "camera=()")
		assert.Empty(t, h.Get("Strict-Transport-Security"))
	})

	t.Run("docs keep their scripts", func(t *testing.T) {
		h := serve(DefaultSecurityConfig(), "/swagger/index.html")
		assert.Empty(t, h.Get("Content-Security-Policy"))
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	})

	t.Run("hsts behind https", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSMaxAge = 365 * 24 * time.Hour
		h := serve(cfg, "/api/v1/members")
		assert.Equal(t, "max-age=31536000; includeSubDomains", h.Get("Strict-Transport-Security"))
	})
}

func TestRequestTimeout(t *testing.T) {
	t.Run("slow ledger export gets 504", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestID(), RequestTimeout(20*time.Millisecond))
		r.GET("/api/v1/admin/ledger", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/ledger", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TIMEOUT")
		assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("fast handler sees the deadline", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestTimeout(time.Second))
		r.GET("/api/v1/ledger/years", func(c *gin.Context) {
			_, ok := c.Request.Context().Deadline()
			assert.True(t, ok)
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/years", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("zero disables the deadline", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestTimeout(0))
		r.GET("/api/v1/ledger/years", func(c *gin.Context) {
			_, ok := c.Request.Context().Deadline()
			assert.False(t, ok)
			c.Status(http.StatusOK)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ledger/years", nil))
	})
}

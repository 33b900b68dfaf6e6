package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/infrastructure/auth"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/mediaassoc/backend/internal/interfaces/http/handler"
	"github.com/mediaassoc/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubContent answers every route with the name of the surface it is on
type stubContent struct{}

func (stubContent) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("", func(c *gin.Context) { c.String(http.StatusOK, "public") })
}

func (stubContent) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("", func(c *gin.Context) { c.String(http.StatusOK, "admin") })
}

func newAPIEngine(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
	})

	engine := gin.New()
	RegisterAPI(engine, NewRouter(engine), Handlers{
		Auth:         handler.NewAuthHandler(nil, config.CookieConfig{}),
		Members:      handler.NewMemberHandler(nil),
		Renewals:     handler.NewRenewalHandler(nil),
		Ledger:       handler.NewLedgerHandler(nil),
		ArchivalJobs: handler.NewArchivalJobHandler(nil),
		Uploads:      handler.NewUploadHandler(nil),
		System:       handler.NewSystemHandler("test", nil),
		Content:      []ContentMount{{Path: "posts", Routes: stubContent{}}},
	}, Guards{
		Session: middleware.RequireSession(middleware.SessionConfig{Tokens: jwtService}),
	})
	return engine, jwtService
}

func bearer(t *testing.T, jwtService *auth.JWTService, role string) string {
	t.Helper()
	session, err := jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  role + "@example.org",
		Role:   role,
	})
	require.NoError(t, err)
	return "Bearer " + session.Token
}

func call(engine *gin.Engine, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRegisterAPI_Routes(t *testing.T) {
	engine, _ := newAPIEngine(t)

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/system/info",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"POST /api/v1/members",
		"POST /api/v1/renewals",
		"GET /api/v1/posts",
		"PATCH /api/v1/admin/members/:id/status",
		"PUT /api/v1/admin/renewals/:id",
		"GET /api/v1/admin/ledger",
		"DELETE /api/v1/admin/ledger",
		"GET /api/v1/admin/ledger/years",
		"POST /api/v1/admin/ledger/import/csv",
		"POST /api/v1/admin/archival-jobs/:id/retry",
		"POST /api/v1/admin/uploads",
		"DELETE /api/v1/admin/uploads/*key",
		"GET /api/v1/admin/posts",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRegisterAPI_Guards(t *testing.T) {
	engine, jwtService := newAPIEngine(t)
	admin := bearer(t, jwtService, "admin")
	editor := bearer(t, jwtService, "editor")

	t.Run("health checks and public content need no session", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call(engine, http.MethodGet, "/health", "").Code)
		w := call(engine, http.MethodGet, "/api/v1/posts", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "public", w.Body.String())
	})

	t.Run("admin routes reject anonymous callers", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(engine, http.MethodGet, "/api/v1/admin/posts", "").Code)
		assert.Equal(t, http.StatusUnauthorized, call(engine, http.MethodGet, "/api/v1/admin/members", "").Code)
		assert.Equal(t, http.StatusUnauthorized, call(engine, http.MethodGet, "/api/v1/auth/me", "").Code)
	})

	t.Run("editors manage site content only", func(t *testing.T) {
		w := call(engine, http.MethodGet, "/api/v1/admin/posts", editor)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", w.Body.String())

		assert.Equal(t, http.StatusForbidden, call(engine, http.MethodGet, "/api/v1/admin/ledger/years", editor).Code)
		assert.Equal(t, http.StatusForbidden, call(engine, http.MethodDelete, "/api/v1/admin/members/x", editor).Code)
	})

	t.Run("admins reach site content", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call(engine, http.MethodGet, "/api/v1/admin/posts", admin).Code)
	})
}

func TestRegisterAPI_ProfileRunsAfterSession(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
	})

	var roles []string
	engine := gin.New()
	RegisterAPI(engine, NewRouter(engine), Handlers{
		Auth:         handler.NewAuthHandler(nil, config.CookieConfig{}),
		Members:      handler.NewMemberHandler(nil),
		Renewals:     handler.NewRenewalHandler(nil),
		Ledger:       handler.NewLedgerHandler(nil),
		ArchivalJobs: handler.NewArchivalJobHandler(nil),
		Uploads:      handler.NewUploadHandler(nil),
		System:       handler.NewSystemHandler("test", nil),
		Content:      []ContentMount{{Path: "posts", Routes: stubContent{}}},
	}, Guards{
		Session: middleware.RequireSession(middleware.SessionConfig{Tokens: jwtService}),
		Profile: func(c *gin.Context) {
			roles = append(roles, middleware.GetJWTRole(c))
			c.Next()
		},
	})

	assert.Equal(t, http.StatusOK, call(engine, http.MethodGet, "/api/v1/posts", "").Code)
	assert.Equal(t, http.StatusOK, call(engine, http.MethodGet, "/api/v1/admin/posts", bearer(t, jwtService, "editor")).Code)
	assert.Equal(t, []string{"editor"}, roles)
}

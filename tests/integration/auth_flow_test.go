package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type currentUserBody struct {
	User struct {
		Email       string  `json:"email"`
		Role        string  `json:"role"`
		LastLoginAt *string `json:"last_login_at"`
	} `json:"user"`
}

func TestAuthSessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewAPITestServer(t)

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    adminEmail,
			"password": "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decode(t, w, nil)
		assert.False(t, env.Success)
	})

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "nobody@mediaassoc.test",
			"password": adminPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login sets the session cookie", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    adminEmail,
			"password": adminPassword,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var session *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == "ma_session" {
				session = c
			}
		}
		require.NotNil(t, session)
		assert.True(t, session.HttpOnly)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(session)
		rec := httptest.NewRecorder()
		ts.Engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var me currentUserBody
		decode(t, rec, &me)
		assert.Equal(t, adminEmail, me.User.Email)
		assert.Equal(t, "admin", me.User.Role)
		assert.NotNil(t, me.User.LastLoginAt)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		token := ts.Login(t)
		require.Equal(t, http.StatusOK, ts.Request(http.MethodGet, "/api/v1/auth/me", nil, token).Code)

		w := ts.Request(http.MethodPost, "/api/v1/auth/logout", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Positive(t, ts.Blacklist.Len())

		assert.Equal(t, http.StatusUnauthorized, ts.Request(http.MethodGet, "/api/v1/auth/me", nil, token).Code)
		assert.Equal(t, http.StatusUnauthorized, ts.Request(http.MethodGet, "/api/v1/admin/ledger/years", nil, token).Code)
	})

	t.Run("changed password is required on next login", func(t *testing.T) {
		token := ts.Login(t)
		const newPassword = "rotated-password-22"

		w := ts.Request(http.MethodPut, "/api/v1/auth/password", map[string]string{
			"old_password": "wrong-old-password",
			"new_password": newPassword,
		}, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = ts.Request(http.MethodPut, "/api/v1/auth/password", map[string]string{
			"old_password": adminPassword,
			"new_password": newPassword,
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    adminEmail,
			"password": adminPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    adminEmail,
			"password": newPassword,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminRoutesRequireSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewAPITestServer(t)

	for _, path := range []string{
		"/api/v1/admin/members",
		"/api/v1/admin/renewals",
		"/api/v1/admin/ledger/years",
		"/api/v1/admin/archival-jobs",
		"/api/v1/admin/posts",
	} {
		w := ts.Request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := ts.Request(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

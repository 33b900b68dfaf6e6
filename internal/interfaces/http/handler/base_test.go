package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/interfaces/http/dto"
	"github.com/mediaassoc/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// setJWTContext stands in for the session guard
func setJWTContext(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(middleware.JWTUserIDKey, userID.String())
	c.Set(middleware.JWTRoleKey, role)
}

// respond runs fn on a fresh context tagged with request ID "req-1"
func respond(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/members/1", nil)
	c.Set(middleware.RequestIDKey, "req-1")
	fn(c)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestGetRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, getRequestID(c))

	c.Request.Header.Set(middleware.RequestIDHeader, "from-header")
	assert.Equal(t, "from-header", getRequestID(c))

	c.Set(middleware.RequestIDKey, "from-middleware")
	assert.Equal(t, "from-middleware", getRequestID(c))
}

func TestBaseHandler_SuccessEnvelopes(t *testing.T) {
	h := &BaseHandler{}

	w, resp := respond(t, func(c *gin.Context) { h.Created(c, gin.H{"full_name": "Ada Lovelace"}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	w, resp = respond(t, func(c *gin.Context) { h.SuccessWithMeta(c, []string{"2021", "2022"}, 41, 3, 20) })
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"missing member", shared.NotFound("Member"), http.StatusNotFound, dto.ErrCodeNotFound, "Member not found"},
		{"wrapped missing renewal", fmt.Errorf("update renewal: %w", shared.NotFound("Renewal")), http.StatusNotFound, dto.ErrCodeNotFound, "Renewal not found"},
		{"bad status value", shared.InvalidInput("status must be one of Pending, Approved, Rejected"), http.StatusBadRequest, dto.ErrCodeInvalidInput, "status must be one of Pending, Approved, Rejected"},
		{"duplicate ledger row", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, shared.ErrAlreadyExists.Message},
		{"dead job retried twice", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, shared.ErrInvalidState.Message},
		{"storage failure is hidden", errors.New(`pq: relation "members" does not exist`), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := respond(t, func(c *gin.Context) { h.HandleError(c, tt.err) })

			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}

	t.Run("nil writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		h.HandleError(c, nil)
		assert.False(t, c.Writer.Written())
	})
}

func TestBaseHandler_ClientErrors(t *testing.T) {
	h := &BaseHandler{}

	w, resp := respond(t, func(c *gin.Context) { h.BadRequest(c, "A CSV file is required in the 'file' field") })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)

	w, resp = respond(t, func(c *gin.Context) { h.Unauthorized(c, "Authentication required") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestGetUserIDAndReviewer(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, err := getUserID(c)
	assert.Error(t, err)
	assert.Nil(t, reviewerID(c))

	c.Set(middleware.JWTUserIDKey, "not-a-uuid")
	assert.Nil(t, reviewerID(c))

	id := uuid.New()
	setJWTContext(c, id, "admin")
	got, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	require.NotNil(t, reviewerID(c))
	assert.Equal(t, id, *reviewerID(c))
}

func TestBaseHandler_BindingError(t *testing.T) {
	type renewalPayload struct {
		Email string `json:"email" binding:"required,email"`
	}

	run := func(body string) (*httptest.ResponseRecorder, dto.Response) {
		h := &BaseHandler{}
		r := gin.New()
		r.POST("/api/v1/renewals", func(c *gin.Context) {
			var req renewalPayload
			if err := c.ShouldBindJSON(&req); err != nil {
				h.BindingError(c, err)
				return
			}
			h.Success(c, req)
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/renewals", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("validation failure lists fields", func(t *testing.T) {
		w, resp := run(`{"email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "email", resp.Error.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := run(`{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})
}

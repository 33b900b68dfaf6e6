package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	appcontent "github.com/mediaassoc/backend/internal/application/content"
	"github.com/mediaassoc/backend/internal/application/upload"
	"github.com/mediaassoc/backend/internal/domain/content"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence"
	"github.com/mediaassoc/backend/internal/infrastructure/storage"
	"github.com/mediaassoc/backend/internal/interfaces/http/dto"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := newHandlerTestDB(t)
	svc := appcontent.NewBlogPostService(persistence.NewGormBlogPostRepository(db), nil)
	h := NewContentHandler[*content.BlogPost, appcontent.BlogPostRequest](svc, appcontent.ToBlogPostResponse)

	r := gin.New()
	h.RegisterPublic(r.Group("/api/v1/posts"))
	h.RegisterAdmin(r.Group("/api/v1/admin/posts"))
	return r
}

func TestContentHandler_DraftsStayPrivate(t *testing.T) {
	r := newPostsRouter(t)

	w := serve(r, jsonRequest(http.MethodPost, "/api/v1/admin/posts", appcontent.BlogPostRequest{
		Title: "Draft Notes", Body: "not yet",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	draft := decodeData[appcontent.BlogPostResponse](t, w).Data
	assert.Equal(t, "draft-notes", draft.Slug)

	w = serve(r, jsonRequest(http.MethodPost, "/api/v1/admin/posts", appcontent.BlogPostRequest{
		Title: "Press Freedom Day", Body: "We marched.", Published: true,
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	public := decodeData[[]appcontent.BlogPostResponse](t, w)
	require.Len(t, public.Data, 1)
	assert.Equal(t, "press-freedom-day", public.Data[0].Slug)
	assert.Equal(t, int64(1), public.Meta.Total)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/posts/press-freedom-day", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/posts/draft-notes", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/posts/"+draft.ID.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/posts", nil))
	assert.Len(t, decodeData[[]appcontent.BlogPostResponse](t, w).Data, 2)
}

func TestContentHandler_UpdateConflictDelete(t *testing.T) {
	r := newPostsRouter(t)

	w := serve(r, jsonRequest(http.MethodPost, "/api/v1/admin/posts", appcontent.BlogPostRequest{Title: "First", Body: "a"}))
	require.Equal(t, http.StatusCreated, w.Code)
	first := decodeData[appcontent.BlogPostResponse](t, w).Data
	w = serve(r, jsonRequest(http.MethodPost, "/api/v1/admin/posts", appcontent.BlogPostRequest{Title: "Second", Body: "b"}))
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, jsonRequest(http.MethodPut, "/api/v1/admin/posts/"+first.ID.String(), appcontent.BlogPostRequest{
		Title: "First", Slug: "second", Body: "a",
	}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, errorCode(t, w))

	w = serve(r, jsonRequest(http.MethodPut, "/api/v1/admin/posts/"+first.ID.String(), appcontent.BlogPostRequest{
		Title: "First, revised", Body: "a2", Published: true,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "First, revised", decodeData[appcontent.BlogPostResponse](t, w).Data.Title)

	w = serve(r, jsonRequest(http.MethodPost, "/api/v1/admin/posts", map[string]any{"title": "No body"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/"+first.ID.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(r, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/"+first.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newUploadRouter(t *testing.T) (*gin.Engine, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	svc := upload.NewService(storage.NewLocalObjectStorageFs(fs, "/uploads"), config.StorageConfig{
		MaxUploadSize: 1024,
		AllowedTypes:  []string{"image/png", "application/pdf"},
	}, nil)
	h := NewUploadHandler(svc)

	r := gin.New()
	r.POST("/api/v1/admin/uploads", h.Upload)
	r.DELETE("/api/v1/admin/uploads/*key", h.Delete)
	return r, fs
}

func fileUpload(t *testing.T, filename, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	r, fs := newUploadRouter(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	w := serve(r, fileUpload(t, "logo.png", "image/png", png))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decodeData[upload.Result](t, w).Data
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, "/uploads/"+res.Key, res.URL)

	exists, err := afero.Exists(fs, res.Key)
	require.NoError(t, err)
	assert.True(t, exists)

	w = serve(r, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/uploads/"+res.Key, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(r, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/uploads/"+res.Key, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadHandler_Rejections(t *testing.T) {
	r, _ := newUploadRouter(t)

	t.Run("too large", func(t *testing.T) {
		w := serve(r, fileUpload(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("%PDF-"), 400)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeFileTooLarge, errorCode(t, w))
	})

	t.Run("disallowed type", func(t *testing.T) {
		w := serve(r, fileUpload(t, "page.html", "text/html", []byte("<html><body>hi</body></html>")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeUnsupportedMedia, errorCode(t, w))
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", nil)
		w := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/application/upload"
	"github.com/mediaassoc/backend/internal/interfaces/http/dto"
)

// UploadHandler stores files for the public site
type UploadHandler struct {
	BaseHandler
	uploadService *upload.Service
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *upload.Service) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// Upload godoc
// @ID           uploadFile
// @Summary      Upload a file
// @Description  Stores an image or document and returns its public URL. The content type is checked against the file's bytes.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "File to upload"
// @Success      201 {object} APIResponse[upload.Result]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.BadRequest(c, "A file is required in the 'file' field")
		return
	}

	file, err := form.File.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), upload.Input{
		Filename:    form.File.Filename,
		ContentType: form.File.Header.Get("Content-Type"),
		Size:        form.File.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Delete godoc
// @ID           deleteUpload
// @Summary      Delete an uploaded file
// @Tags         uploads
// @Produce      json
// @Param        key path string true "Object key"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/uploads/{key} [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if err := h.uploadService.Delete(c.Request.Context(), key); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "File deleted"})
}
